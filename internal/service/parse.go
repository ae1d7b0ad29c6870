package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ArtistSync/internal/model"
)

// ========== 自由文本抽取（邮件/日历/社媒正文 -> 结构化草稿字段） ==========

var (
	// 日期模式按优先级依次尝试：星期+月日 -> MM/DD/YYYY -> YYYY-MM-DD
	weekdayDatePattern = regexp.MustCompile(`(?i)\b(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),?\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}\b`)
	slashDatePattern   = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	isoDatePattern     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)

	// 时间模式：H:MM AM/PM 或 H AM/PM
	clockTimePattern = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:am|pm)\b`)
	hourTimePattern  = regexp.MustCompile(`(?i)\b\d{1,2}\s*(?:am|pm)\b`)

	// 场地：显式 venue: 标签优先，其次 at/@ 前缀的首字母大写短语
	venueLabelPattern  = regexp.MustCompile(`(?i)venue:\s*([^\n.,]+)`)
	venuePrefixPattern = regexp.MustCompile(`(?:\bat\s+|@\s*)((?:[A-Z][A-Za-z0-9'&]*)(?:\s+(?:[A-Z][A-Za-z0-9'&]*|of|the))*)`)

	// 票价：$金额或 free / no cover 字样
	pricePattern     = regexp.MustCompile(`\$\s?\d+(?:\.\d{2})?`)
	freePricePattern = regexp.MustCompile(`(?i)\b(free|no cover)\b`)

	// 购票链接：正文内所有URL中含 ticket|event|buy|purchase 子串者
	urlPattern       = regexp.MustCompile(`https?://[^\s<>"]+`)
	ticketURLKeyword = regexp.MustCompile(`(?i)ticket|event|buy|purchase`)

	// 阵容标签（lineup:/artists:/featuring: 后接艺人列表）
	lineupLabelPattern = regexp.MustCompile(`(?i)(?:lineup|artists?|featuring):\s*([^\n]+)`)

	// 风格标签（genre: 后接风格名）
	genreLabelPattern = regexp.MustCompile(`(?i)genre:\s*([^\n.,]+)`)

	// 邮件主题前缀（转发/回复/提醒标签）
	subjectPrefixPattern = regexp.MustCompile(`(?i)^\s*(?:fwd:|re:|event alert:|event:|invite:|upcoming:)\s*`)

	// 艺人列表分隔符：逗号、+、&、ft./feat./with
	artistSplitPattern = regexp.MustCompile(`(?i)\s*(?:,|\+|&|\bft\.|\bfeat\.|\bwith\b)\s*`)
)

// promoterDomains 发件域名 -> 主办方名称的固定查表（未收录域名返回空）
var promoterDomains = map[string]string{
	"nightowlpresents.com":    "Night Owl Presents",
	"warehousecollective.org": "Warehouse Collective",
	"basementseries.com":      "Basement Series",
	"sunsetsessions.net":      "Sunset Sessions",
	"deepcutevents.com":       "Deep Cut Events",
}

// genreSynonyms 风格同义词固定查表（键一律小写）
var genreSynonyms = map[string]string{
	"house":             "house",
	"deep house":        "house",
	"tech house":        "house",
	"progressive house": "house",
	"techno":            "techno",
	"minimal techno":    "techno",
	"dnb":               "drum-and-bass",
	"drum and bass":     "drum-and-bass",
	"drum & bass":       "drum-and-bass",
	"jungle":            "drum-and-bass",
	"dubstep":           "bass",
	"bass":              "bass",
	"trance":            "trance",
	"psytrance":         "trance",
	"hip hop":           "hip-hop",
	"hip-hop":           "hip-hop",
	"rap":               "hip-hop",
	"disco":             "disco",
	"nu disco":          "disco",
	"ambient":           "ambient",
	"downtempo":         "ambient",
}

// genreKeywords 正文关键词推断的目标词表（按特异性降序，先命中先得）
var genreKeywords = []struct {
	keyword string
	genre   string
}{
	{"deep house", "house"},
	{"tech house", "house"},
	{"drum and bass", "drum-and-bass"},
	{"drum & bass", "drum-and-bass"},
	{"dnb", "drum-and-bass"},
	{"jungle", "drum-and-bass"},
	{"dubstep", "bass"},
	{"psytrance", "trance"},
	{"techno", "techno"},
	{"house", "house"},
	{"trance", "trance"},
	{"hip hop", "hip-hop"},
	{"hip-hop", "hip-hop"},
	{"disco", "disco"},
	{"ambient", "ambient"},
}

// ParseFreeText 自由文本抽取：逐字段尽力而为，抽不出就留空，绝不报错——
// 解析质量问题交给人工审核兜底
func ParseFreeText(subject, body, fromEmail string) *model.ParsedEvent {
	parsed := &model.ParsedEvent{
		Title: CleanSubject(subject),
	}

	// 日期：三个模式按序尝试
	if m := weekdayDatePattern.FindString(body); m != "" {
		parsed.Date = m
	} else if m := slashDatePattern.FindString(body); m != "" {
		parsed.Date = m
	} else if m := isoDatePattern.FindString(body); m != "" {
		parsed.Date = m
	}

	// 时间：H:MM AM/PM 优先于 H AM/PM
	if m := clockTimePattern.FindString(body); m != "" {
		parsed.Time = strings.ToLower(strings.TrimSpace(m))
	} else if m := hourTimePattern.FindString(body); m != "" {
		parsed.Time = strings.ToLower(strings.TrimSpace(m))
	}

	// 场地
	if m := venueLabelPattern.FindStringSubmatch(body); m != nil {
		parsed.VenueName = strings.TrimSpace(m[1])
	} else if m := venuePrefixPattern.FindStringSubmatch(body); m != nil {
		parsed.VenueName = strings.TrimSpace(m[1])
	}

	// 票价
	if m := pricePattern.FindString(body); m != "" {
		parsed.Price = strings.ReplaceAll(m, " ", "")
	} else if m := freePricePattern.FindString(body); m != "" {
		parsed.Price = m
	}

	// 购票链接：取第一条含关键词的URL
	for _, raw := range urlPattern.FindAllString(body, -1) {
		candidate := strings.TrimRight(raw, ".,;:!?)")
		if ticketURLKeyword.MatchString(candidate) {
			parsed.TicketURL = candidate
			break
		}
	}

	// 阵容
	if m := lineupLabelPattern.FindStringSubmatch(body); m != nil {
		parsed.Artists = SplitArtists(m[1])
	}

	// 主办方：发件域名查表
	parsed.Promoter = PromoterFromEmail(fromEmail)

	// 风格：显式标签走同义词表；完全没提供则只对正文做关键词推断（主题不参与）
	if m := genreLabelPattern.FindStringSubmatch(body); m != nil {
		parsed.Genre = NormalizeGenre(m[1])
	} else {
		parsed.Genre = InferGenre(body)
	}

	return parsed
}

// CleanSubject 去掉邮件主题的转发/回复/提醒前缀
func CleanSubject(subject string) string {
	title := strings.TrimSpace(subject)
	for {
		stripped := subjectPrefixPattern.ReplaceAllString(title, "")
		if stripped == title {
			break
		}
		title = stripped
	}
	return strings.TrimSpace(title)
}

// SplitArtists 按逗号、+、&、ft./feat./with 拆分艺人列表，去空白丢空项
func SplitArtists(raw string) []string {
	parts := artistSplitPattern.Split(raw, -1)
	artists := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			artists = append(artists, name)
		}
	}
	return artists
}

// NormalizeGenre 风格同义词归一化，查不到一律归为 other
func NormalizeGenre(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "other"
	}
	if genre, ok := genreSynonyms[key]; ok {
		return genre
	}
	return "other"
}

// InferGenre 对原始文本做关键词检索推断风格，词表与归一化目标一致，无命中归为 other
func InferGenre(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range genreKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.genre
		}
	}
	return "other"
}

// PromoterFromEmail 发件地址域名 -> 主办方固定查表
func PromoterFromEmail(fromEmail string) string {
	at := strings.LastIndex(fromEmail, "@")
	if at < 0 {
		return ""
	}
	domain := strings.ToLower(strings.TrimSpace(fromEmail[at+1:]))
	return promoterDomains[domain]
}

// ========== 审核通过时的规范化 ==========

// 日期解析布局（去掉星期前缀后依次尝试）
var weekdayPrefixPattern = regexp.MustCompile(`(?i)^(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),?\s*`)

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"January 2, 2006",
	"January 2 2006",
}

// 不带年份的布局（解析成功后补当前年份）
var yearlessLayouts = []string{
	"January 2",
	"Jan 2",
}

// NormalizeEventDate 把自由文本日期规范为 YYYY-MM-DD；解析失败或为空时退回当前日期
func NormalizeEventDate(raw string, now time.Time) string {
	text := strings.TrimSpace(weekdayPrefixPattern.ReplaceAllString(strings.TrimSpace(raw), ""))
	if text == "" {
		return now.Format("2006-01-02")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format("2006-01-02")
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		}
	}
	return now.Format("2006-01-02")
}

// 时间规范化的识别模式
var (
	normalizedTimePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	meridiemTimePattern   = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)
)

// maxTimeInputLen 超过此长度的时间字符串直接视为垃圾输入
const maxTimeInputLen = 50

// NormalizeEventTime 把时间规范为24小时 HH:MM：
// Npm/Nam 后缀形式做12小时制换算（小时越界1-12视为无效），
// 已是 H:MM 形式原样放行，无法识别或超长输入一律退回 defaultTime
func NormalizeEventTime(raw string, defaultTime string) string {
	text := strings.TrimSpace(raw)
	if text == "" || len(text) > maxTimeInputLen {
		return defaultTime
	}

	if normalizedTimePattern.MatchString(text) {
		return text
	}

	m := meridiemTimePattern.FindStringSubmatch(text)
	if m == nil {
		return defaultTime
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return defaultTime
	}
	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return defaultTime
		}
	}

	meridiem := strings.ToLower(m[3])
	if meridiem == "pm" && hour != 12 {
		hour += 12
	}
	if meridiem == "am" && hour == 12 {
		hour = 0
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ========== slug 生成 ==========

var (
	slugInvalidPattern  = regexp.MustCompile(`[^a-z0-9]+`)
	slugCollapsePattern = regexp.MustCompile(`-+`)
)

// BuildSlug 由标题+日期+场地生成基础slug（小写、非字母数字折叠为连字符）
func BuildSlug(title, date, venue string) string {
	base := strings.ToLower(strings.TrimSpace(title + " " + date + " " + venue))
	base = slugInvalidPattern.ReplaceAllString(base, "-")
	base = slugCollapsePattern.ReplaceAllString(base, "-")
	return strings.Trim(base, "-")
}
