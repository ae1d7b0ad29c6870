package model

// 数据源名称枚举（报告中的 source_matches 键）
const (
	SourceSpotify     = "spotify"
	SourceLastfm      = "lastfm"
	SourceMusicbrainz = "musicbrainz"
)

// CatalogSnapshot Spotify 单次同步抓到的快照（辅助资源各自尽力而为）
// Fetched标志区分"抓取成功但为空"与"抓取失败"：
// 成功的空结果照样覆盖旧快照，失败则整体缺席不碰旧值
type CatalogSnapshot struct {
	Artist           *SpotifyArtist // 主查询结果（必有，否则整个同步失败）
	TopTracks        []SpotifyTrack // 热门曲目
	Albums           []SpotifyAlbum // 专辑列表
	TopTracksFetched bool
	AlbumsFetched    bool
}

// StatsSnapshot Last.fm 单次同步抓到的快照
type StatsSnapshot struct {
	Artist *LastfmArtist
}

// MetadataSnapshot MusicBrainz 单次同步抓到的快照（含 URL 关系）
type MetadataSnapshot struct {
	Artist *MusicbrainzArtist
}

// SyncResult 单个艺人的同步结果
type SyncResult struct {
	ArtistID       uint64   `json:"artist_id"`
	Name           string   `json:"name"`
	Success        bool     `json:"success"`
	MatchedSources []string `json:"matched_sources"` // 本次命中的数据源，供审计归并完整性
	UpdatedFields  []string `json:"updated_fields"`
	Error          string   `json:"error,omitempty"`
}

// FailedArtist 批量报告中的失败明细（供运营排查）
type FailedArtist struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// BatchReport 批量同步的聚合报告（successful + failed 恒等于 total）
type BatchReport struct {
	Total         int            `json:"total"`
	Successful    int            `json:"successful"`
	Failed        int            `json:"failed"`
	SourceMatches map[string]int `json:"source_matches"` // 各数据源命中次数
	FailedArtists []FailedArtist `json:"failed_artists"`
}

// TrackSnapshot 落库进 artists.top_tracks 的单条曲目快照
type TrackSnapshot struct {
	Name       string `json:"name"`
	Album      string `json:"album"`
	ImageURL   string `json:"image_url"`
	PreviewURL string `json:"preview_url"`
	SpotifyURL string `json:"spotify_url"`
	Popularity int    `json:"popularity"`
}

// AlbumSnapshot 落库进 artists.albums 的单张专辑快照
type AlbumSnapshot struct {
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	TotalTracks int    `json:"total_tracks"`
	ImageURL    string `json:"image_url"`
	SpotifyURL  string `json:"spotify_url"`
}

// ParsedEvent 解析出的活动草稿字段（序列化进 event_drafts.parsed）
// 所有字段都是尽力而为：解析不出就留空，由人工审核补全
type ParsedEvent struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`       // 原始日期片段（审核通过时才规范化）
	Time        string   `json:"time"`       // 原始时间片段（同上）
	VenueName   string   `json:"venue_name"`
	Artists     []string `json:"artists"`
	Genre       string   `json:"genre"`
	Price       string   `json:"price"`
	Promoter    string   `json:"promoter"`
	TicketURL   string   `json:"ticket_url"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
}
