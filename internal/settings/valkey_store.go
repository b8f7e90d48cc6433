package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/valkey-io/valkey-go"
)

// DefaultValkeyKey holds the settings document when no key is configured.
const DefaultValkeyKey = "almanac:settings"

// ValkeyStore keeps settings as one JSON document in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	key    string
}

// NewValkeyClient connects to addr, which is either host:port or a
// redis:// / valkey:// URL.
func NewValkeyClient(addr string) (valkey.Client, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(addr, "://") {
		opt, err = valkey.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse valkey url: %w", err)
		}
	} else {
		opt = valkey.ClientOption{InitAddress: []string{addr}}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("connect valkey %s: %w", addr, err)
	}
	return client, nil
}

// NewValkeyStore constructs a store that reads and writes key.
func NewValkeyStore(client valkey.Client, key string) *ValkeyStore {
	if key == "" {
		key = DefaultValkeyKey
	}
	return &ValkeyStore{client: client, key: key}
}

// Load returns the stored settings, or Defaults when the key is absent.
func (s *ValkeyStore) Load(ctx context.Context) (Settings, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return Defaults(), nil
		}
		return Settings{}, fmt.Errorf("valkey get %s: %w", s.key, err)
	}
	out := Defaults()
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return Settings{}, fmt.Errorf("decode settings %s: %w", s.key, err)
	}
	if err := out.Validate(); err != nil {
		return Settings{}, fmt.Errorf("stored settings %s: %w", s.key, err)
	}
	return out, nil
}

// Save validates and overwrites the document.
func (s *ValkeyStore) Save(ctx context.Context, in Settings) error {
	if err := in.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.client.Do(ctx, s.client.B().Set().Key(s.key).Value(string(payload)).Build()).Error(); err != nil {
		return fmt.Errorf("valkey set %s: %w", s.key, err)
	}
	return nil
}

// Ping checks the connection.
func (s *ValkeyStore) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

// Close releases the underlying client.
func (s *ValkeyStore) Close() {
	s.client.Close()
}

var _ Store = (*ValkeyStore)(nil)
