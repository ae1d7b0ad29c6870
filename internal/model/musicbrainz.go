package model

// ========== MusicBrainz WS/2 响应结构（fmt=json） ==========

// MusicbrainzSearchResponse GET /ws/2/artist?query=... 的根响应
type MusicbrainzSearchResponse struct {
	Artists []MusicbrainzArtist `json:"artists"`
	Count   int                 `json:"count"`
}

// MusicbrainzArtist MusicBrainz 艺人结构（search 与 by-id 共用）
type MusicbrainzArtist struct {
	ID        string                `json:"id"` // MBID
	Name      string                `json:"name"`
	Score     int                   `json:"score"` // search 结果的匹配分
	Area      *MusicbrainzArea      `json:"area"`  // 活动地区（地理信息最权威来源）
	BeginArea *MusicbrainzArea      `json:"begin-area"`
	Relations []MusicbrainzRelation `json:"relations"` // inc=url-rels 时返回
}

// MusicbrainzArea 地区
type MusicbrainzArea struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MusicbrainzRelation URL 关系（social network / official homepage 等）
type MusicbrainzRelation struct {
	Type string          `json:"type"` // 如 "social network" / "official homepage" / "other databases"
	URL  *MusicbrainzURL `json:"url"`
}

// MusicbrainzURL 关系指向的地址
type MusicbrainzURL struct {
	Resource string `json:"resource"`
}
