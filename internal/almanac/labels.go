package almanac

import "fmt"

// GregorianLabel renders d the way zh-CN long dates read, e.g. 2024年1月1日星期一.
func GregorianLabel(d Date) string {
	return fmt.Sprintf("%d年%d月%d日%s", d.Year, int(d.Month), d.Day, weekdayLabels[d.Weekday()])
}

// LunarLabel returns a simplified lunar label such as "甲辰年 龙年 2月6日".
//
// Only the sexagenary year is real. The month and day are shifted Gregorian
// values, not a lunisolar conversion.
func LunarLabel(d Date) string {
	offset := d.Year - 4
	stem := heavenlyStems[mod(offset, len(heavenlyStems))]
	branch := mod(offset, len(earthlyBranch))

	month := (int(d.Month) + 1) % 12
	if month == 0 {
		month = 12
	}
	day := (d.Day + 5) % 30
	if day == 0 {
		day = 30
	}
	return fmt.Sprintf("%s%s年 %s年 %d月%d日", stem, earthlyBranch[branch], zodiacAnimals[branch], month, day)
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
