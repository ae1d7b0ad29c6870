package interfaces

import (
	"context"

	"ArtistSync/internal/model"
)

// CatalogClient 流媒体曲库（Spotify）客户端接口
// 主查询（LookupArtist/SearchArtist）失败则整个艺人同步失败；辅助资源各自尽力而为
type CatalogClient interface {
	LookupArtist(ctx context.Context, id string) (*model.SpotifyArtist, error)   // 按ID直查
	SearchArtist(ctx context.Context, name string) (*model.SpotifyArtist, error) // 按名称搜索，取排名第一的结果
	TopTracks(ctx context.Context, id string) ([]model.SpotifyTrack, error)      // 热门曲目
	Albums(ctx context.Context, id string) ([]model.SpotifyAlbum, error)         // 专辑列表
}

// StatsClient 收听统计服务（Last.fm）客户端接口
type StatsClient interface {
	ArtistInfo(ctx context.Context, name string) (*model.LastfmArtist, error)
}

// MetadataClient 开放元数据库（MusicBrainz）客户端接口
// 搜索命中后附带 URL 关系与地区信息
type MetadataClient interface {
	SearchArtist(ctx context.Context, name string) (*model.MusicbrainzArtist, error)
}
