package model

import (
	"time"

	"gorm.io/datatypes"
)

// Artist 艺人主表（三方数据源归并后的规范记录）
// name 为跨源匹配的业务键（大小写不敏感精确匹配，首个匹配生效）
type Artist struct {
	ID                  uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name                string         `gorm:"column:name;type:varchar(256);index;not null;comment:艺人名称（跨源匹配键）"`
	Genres              datatypes.JSON `gorm:"column:genres;type:jsonb;comment:风格标签（有序列表）"`
	Bio                 string         `gorm:"column:bio;type:text;comment:艺人简介"`
	Hometown            string         `gorm:"column:hometown;type:varchar(128);comment:家乡/活动地区"`
	ImageURL            string         `gorm:"column:image_url;type:varchar(512);comment:头像图片地址"`
	Website             string         `gorm:"column:website;type:varchar(512);comment:官网地址"`
	SpotifyID           string         `gorm:"column:spotify_id;type:varchar(64);comment:Spotify艺人ID"`
	SpotifyURL          string         `gorm:"column:spotify_url;type:varchar(512);comment:Spotify主页地址"`
	LastfmName          string         `gorm:"column:lastfm_name;type:varchar(256);comment:Last.fm同步标记（匹配到的名称）"`
	MusicbrainzID       string         `gorm:"column:musicbrainz_id;type:varchar(64);comment:MusicBrainz艺人ID"`
	Popularity          int            `gorm:"column:popularity;type:int;default:0;comment:Spotify热度分（0-100）"`
	Followers           int            `gorm:"column:followers;type:int;default:0;comment:Spotify粉丝数"`
	TopTracks           datatypes.JSON `gorm:"column:top_tracks;type:jsonb;comment:热门曲目快照"`
	Albums              datatypes.JSON `gorm:"column:albums;type:jsonb;comment:专辑快照"`
	FacebookURL         string         `gorm:"column:facebook_url;type:varchar(512);comment:Facebook地址"`
	InstagramURL        string         `gorm:"column:instagram_url;type:varchar(512);comment:Instagram地址"`
	TwitterURL          string         `gorm:"column:twitter_url;type:varchar(512);comment:Twitter地址"`
	SoundcloudURL       string         `gorm:"column:soundcloud_url;type:varchar(512);comment:SoundCloud地址"`
	SpotifySyncedAt     *time.Time     `gorm:"column:spotify_synced_at;type:timestamp;comment:Spotify最近同步时间"`
	LastfmSyncedAt      *time.Time     `gorm:"column:lastfm_synced_at;type:timestamp;comment:Last.fm最近同步时间"`
	MusicbrainzSyncedAt *time.Time     `gorm:"column:musicbrainz_synced_at;type:timestamp;comment:MusicBrainz最近同步时间"`
	CreatedAt           time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// Venue 场地表（按名称精确去重，导入管线惰性创建，创建后管线不再更新）
type Venue struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name         string    `gorm:"column:name;type:varchar(256);uniqueIndex;not null;comment:场地名称（去重键）"`
	Address      string    `gorm:"column:address;type:varchar(256);comment:街道地址"`
	City         string    `gorm:"column:city;type:varchar(128);comment:城市"`
	State        string    `gorm:"column:state;type:varchar(64);comment:州/省"`
	Zip          string    `gorm:"column:zip;type:varchar(16);comment:邮编"`
	Capacity     int       `gorm:"column:capacity;type:int;default:0;comment:容纳人数"`
	Description  string    `gorm:"column:description;type:text;comment:场地描述"`
	ContactEmail string    `gorm:"column:contact_email;type:varchar(256);comment:联系邮箱"`
	ContactPhone string    `gorm:"column:contact_phone;type:varchar(32);comment:联系电话"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// Event 活动表（审核通过的导入草稿落库为正式活动）
// slug 全局唯一，冲突时追加 -1/-2 数字后缀；date/time 落库前统一为 YYYY-MM-DD / 24小时 HH:MM
type Event struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	EventUUID   string         `gorm:"column:event_uuid;type:varchar(64);uniqueIndex;not null;comment:全局唯一ID"`
	Slug        string         `gorm:"column:slug;type:varchar(320);uniqueIndex;not null;comment:URL唯一标识"`
	Title       string         `gorm:"column:title;type:varchar(256);not null;comment:活动标题"`
	Description string         `gorm:"column:description;type:text;comment:活动描述"`
	Date        string         `gorm:"column:date;type:varchar(10);not null;comment:活动日期（YYYY-MM-DD）"`
	Time        string         `gorm:"column:time;type:varchar(5);not null;comment:开始时间（24小时HH:MM）"`
	Genre       string         `gorm:"column:genre;type:varchar(64);comment:音乐风格"`
	Category    string         `gorm:"column:category;type:varchar(64);comment:活动分类"`
	Promoter    string         `gorm:"column:promoter;type:varchar(256);comment:主办方"`
	TicketURL   string         `gorm:"column:ticket_url;type:varchar(512);comment:购票链接"`
	FlyerURL    string         `gorm:"column:flyer_url;type:varchar(512);comment:海报图片地址"`
	Price       string         `gorm:"column:price;type:varchar(64);comment:票价（原始字符串）"`
	Status      string         `gorm:"column:status;type:varchar(16);default:active;comment:状态"`
	Tags        datatypes.JSON `gorm:"column:tags;type:jsonb;comment:标签列表"`
	VenueID     uint64         `gorm:"column:venue_id;type:bigint;not null;comment:关联场地ID"`
	Artists     []*Artist      `gorm:"many2many:event_artists"`
	CreatedAt   time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// 草稿状态枚举
const (
	DraftStatusPending  = "pending_review"
	DraftStatusApproved = "approved"
	DraftStatusRejected = "rejected"
)

// EventDraft 导入草稿表（待审核队列，落数据库表，靠数据库自身并发控制去掉文件锁）
// 生命周期：ingest创建 -> 审核决策恰好一次（approved/rejected为终态，不可重开）
type EventDraft struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	DraftUUID  string         `gorm:"column:draft_uuid;type:varchar(64);uniqueIndex;not null;comment:对外草稿ID"`
	Status     string         `gorm:"column:status;type:varchar(16);default:pending_review;not null;comment:状态：pending_review/approved/rejected"`
	Source     string         `gorm:"column:source;type:varchar(32);not null;comment:导入渠道标识"`
	RawPayload datatypes.JSON `gorm:"column:raw_payload;type:jsonb;not null;comment:原始载荷（逐字留存供审计）"`
	Parsed     datatypes.JSON `gorm:"column:parsed;type:jsonb;comment:解析出的活动字段（解析失败则为空）"`
	EventID    *uint64        `gorm:"column:event_id;type:bigint;comment:审核通过后关联的活动ID"`
	ImportedAt time.Time      `gorm:"column:imported_at;type:timestamp;default:now();comment:导入时间"`
	ReviewedAt *time.Time     `gorm:"column:reviewed_at;type:timestamp;comment:审核时间"`
}

func (Artist) TableName() string     { return "artists" }
func (Venue) TableName() string      { return "venues" }
func (Event) TableName() string      { return "events" }
func (EventDraft) TableName() string { return "event_drafts" }
