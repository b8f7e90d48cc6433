package almanac

// Vocabularies behind every generated fortune. Reordering or editing an entry
// changes the output for every past and future date.
var (
	heavenlyStems  = []string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
	earthlyBranch  = []string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}
	zodiacAnimals  = []string{"鼠", "牛", "虎", "兔", "龙", "蛇", "马", "羊", "猴", "鸡", "狗", "猪"}
	weekdayLabels  = []string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}
	directionNames = []string{"东", "南", "西", "北", "东南", "西南", "东北", "西北"}
)

var doItems = []string{
	"写代码", "提交代码", "上线部署", "代码审查", "重构代码",
	"学习新技术", "写文档", "修复Bug", "优化性能", "开会讨论",
	"设计架构", "写单元测试", "更新依赖", "清理代码", "备份数据",
}

var avoidItems = []string{
	"删库", "强制推送", "直接修改生产环境", "跳过测试", "忽略警告",
	"硬编码密码", "不写注释", "复制粘贴代码", "提交未测试代码", "忽略代码审查",
	"随意修改配置", "不备份就删除", "在主分支直接开发", "忽略安全漏洞", "过度优化",
}

var languages = []string{
	"TypeScript", "JavaScript", "Python", "Java", "Go",
	"Rust", "C++", "Swift", "Kotlin", "Ruby",
}

var codeTypes = []string{
	"前端界面开发", "后端API开发", "算法优化", "代码重构",
	"数据库设计", "性能调优", "安全加固", "测试用例编写",
}

var workWindows = []string{
	"早晨 9:00-11:00", "上午 10:00-12:00", "下午 14:00-16:00",
	"下午 15:00-17:00", "晚上 20:00-22:00", "深夜 23:00-1:00",
}

var workPositions = []string{
	"靠窗位置", "角落安静处", "开放工作区", "会议室", "咖啡厅",
	"家里书房", "阳台", "图书馆", "共享办公空间", "户外露台",
}

var dressStyles = []string{
	"休闲舒适", "商务正装", "运动风", "极简风", "潮流街头",
	"文艺范", "科技感", "复古风", "学院风", "工装风",
}

var luckyColors = []string{
	"紫色", "蓝色", "绿色", "橙色", "红色",
	"黄色", "黑色", "白色", "灰色", "粉色",
}

// aspectDef describes one of the four detailed-fortune aspects.
type aspectDef struct {
	name         string
	scoreOffset  int
	seed         int
	descriptions []string
}

var aspectDefs = []aspectDef{
	{
		name: "事业运", scoreOffset: 0, seed: seedCareer,
		descriptions: []string{
			"今日工作顺利，适合推进重要项目",
			"可能遇到一些挑战，保持耐心",
			"团队协作运势佳，多与同事沟通",
			"创意灵感丰富，适合头脑风暴",
			"注意细节，避免粗心大意",
		},
	},
	{
		name: "财运", scoreOffset: 1, seed: seedWealth,
		descriptions: []string{
			"财运平稳，适合理性消费",
			"可能有意外收入，保持关注",
			"投资需谨慎，不宜冒险",
			"适合学习理财知识",
			"收入稳定，可考虑小额投资",
		},
	},
	{
		name: "健康运", scoreOffset: 2, seed: seedHealth,
		descriptions: []string{
			"注意休息，避免过度劳累",
			"适合户外运动，增强体质",
			"饮食清淡，多喝水",
			"保持良好作息，早睡早起",
			"注意用眼健康，适当休息",
		},
	},
	{
		name: "感情运", scoreOffset: 3, seed: seedRelations,
		descriptions: []string{
			"人际关系和谐，适合社交",
			"多关心身边的人",
			"保持真诚，避免误会",
			"单身者桃花运佳",
			"情侣感情稳定，可增进了解",
		},
	},
}

// Double-hour (时辰) labels, starting at 子时.
var timeSlotLabels = []string{
	"子时 (23:00-01:00)", "丑时 (01:00-03:00)", "寅时 (03:00-05:00)", "卯时 (05:00-07:00)",
	"辰时 (07:00-09:00)", "巳时 (09:00-11:00)", "午时 (11:00-13:00)", "未时 (13:00-15:00)",
	"申时 (15:00-17:00)", "酉时 (17:00-19:00)", "戌时 (19:00-21:00)", "亥时 (21:00-23:00)",
}

var verdicts = []Verdict{VerdictAuspicious, VerdictNeutral, VerdictInauspicious}

// Seed offsets per field. They decorrelate fields derived from the same hash
// and are part of the output contract.
const (
	seedDo         = 1
	seedAvoid      = 2
	seedLanguage   = 3
	seedCodeType   = 4
	seedWorkWindow = 5
	seedPosition   = 6
	seedDress      = 7
	seedColor      = 8
	seedDirection  = 9
	seedCareer     = 10
	seedWealth     = 11
	seedHealth     = 12
	seedRelations  = 13
	seedFirstSlot  = 20
)

// Items per do/avoid list.
const listSize = 5
