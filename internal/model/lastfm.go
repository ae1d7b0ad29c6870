package model

// ========== Last.fm artist.getinfo 响应结构 ==========

// LastfmArtistInfoResponse artist.getinfo&format=json 的根响应
type LastfmArtistInfoResponse struct {
	Artist  *LastfmArtist `json:"artist"` // 未命中时为空
	Error   int           `json:"error"`  // 非0表示接口级错误
	Message string        `json:"message"`
}

// LastfmArtist Last.fm 艺人结构
type LastfmArtist struct {
	Name  string      `json:"name"`
	URL   string      `json:"url"`
	Stats LastfmStats `json:"stats"`
	Bio   LastfmBio   `json:"bio"`
	Tags  LastfmTags  `json:"tags"`
}

// LastfmStats 收听统计（接口返回为字符串数字）
type LastfmStats struct {
	Listeners string `json:"listeners"` // 收听人数
	Playcount string `json:"playcount"` // 播放次数
}

// LastfmBio 简介（HTML，结尾带 "Read more on Last.fm" 归属后缀）
type LastfmBio struct {
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// LastfmTags 标签列表包装
type LastfmTags struct {
	Tag []LastfmTag `json:"tag"`
}

// LastfmTag 单个标签
type LastfmTag struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
