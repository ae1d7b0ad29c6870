package model

// ========== Spotify Web API 响应结构 ==========

// SpotifyTokenResponse client-credentials 模式的令牌响应
type SpotifyTokenResponse struct {
	AccessToken string `json:"access_token"` // Bearer令牌
	TokenType   string `json:"token_type"`   // 固定为bearer
	ExpiresIn   int    `json:"expires_in"`   // 有效期（秒）
}

// SpotifyArtist GET /v1/artists/{id} 的艺人结构
type SpotifyArtist struct {
	ID           string            `json:"id"`   // Spotify艺人ID
	Name         string            `json:"name"` // 艺人名称
	Genres       []string          `json:"genres"`
	Popularity   int               `json:"popularity"` // 热度分（0-100）
	Followers    SpotifyFollowers  `json:"followers"`
	Images       []SpotifyImage    `json:"images"`        // 按尺寸降序
	ExternalURLs map[string]string `json:"external_urls"` // key=spotify 时为主页地址
}

// SpotifyFollowers 粉丝数包装结构
type SpotifyFollowers struct {
	Total int `json:"total"`
}

// SpotifyImage 封面/头像图片
type SpotifyImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SpotifySearchResponse GET /v1/search?type=artist 的根响应
type SpotifySearchResponse struct {
	Artists SpotifyArtistPage `json:"artists"`
}

// SpotifyArtistPage 搜索结果分页
type SpotifyArtistPage struct {
	Items []SpotifyArtist `json:"items"`
	Total int             `json:"total"`
}

// SpotifyTopTracksResponse GET /v1/artists/{id}/top-tracks 的根响应
type SpotifyTopTracksResponse struct {
	Tracks []SpotifyTrack `json:"tracks"`
}

// SpotifyTrack 单条曲目（落库为 top_tracks 快照的元素）
type SpotifyTrack struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Popularity   int               `json:"popularity"`
	PreviewURL   string            `json:"preview_url"` // 30秒试听片段，可能为空
	ExternalURLs map[string]string `json:"external_urls"`
	Album        SpotifyTrackAlbum `json:"album"`
}

// SpotifyTrackAlbum 曲目所属专辑的精简结构
type SpotifyTrackAlbum struct {
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

// SpotifyAlbumsResponse GET /v1/artists/{id}/albums 的根响应
type SpotifyAlbumsResponse struct {
	Items []SpotifyAlbum `json:"items"`
}

// SpotifyAlbum 单张专辑（落库为 albums 快照的元素）
type SpotifyAlbum struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ReleaseDate  string            `json:"release_date"` // YYYY-MM-DD 或仅年份
	TotalTracks  int               `json:"total_tracks"`
	Images       []SpotifyImage    `json:"images"`
	ExternalURLs map[string]string `json:"external_urls"`
}
