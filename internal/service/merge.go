package service

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"ArtistSync/internal/model"

	"gorm.io/datatypes"
)

// 简介归并阈值（Last.fm简介采纳条件）
const (
	bioMinUsefulLen     = 100 // 清洗后低于此长度的简介不采纳
	bioMinGainLen       = 50  // 新简介至少比现有长这么多才替换
	bioShortExistingLen = 200 // 现有简介低于此长度时允许被超过100字的新简介替换
)

// 快照截断上限（点位指标，只留最新的一小段）
const (
	maxTopTracks = 10
	maxAlbums    = 10
)

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	// Last.fm 简介结尾的归属后缀（"Read more on Last.fm" 链接），从此处整段截掉
	lastfmAttribution = "Read more on Last.fm"
)

// MergeArtistFields 纯归并函数：按字段级优先策略把三方快照折叠进现有记录，
// 返回待落库的字段更新集（键为数据库列名）。不做任何网络/数据库访问，可独立单测。
// 失败的数据源传nil即可——该源的贡献整体缺席，不影响其他字段
func MergeArtistFields(existing *model.Artist, cat *model.CatalogSnapshot, st *model.StatsSnapshot, md *model.MetadataSnapshot, now time.Time) (map[string]interface{}, []string) {
	updates := make(map[string]interface{})
	set := func(column string, value interface{}) {
		updates[column] = value
	}

	bioSet := false

	// 1. Last.fm简介：清洗后够长且明显优于现有时才替换
	if st != nil && st.Artist != nil {
		cleaned := CleanLastfmBio(st.Artist.Bio.Content)
		if cleaned == "" {
			cleaned = CleanLastfmBio(st.Artist.Bio.Summary)
		}
		if len(cleaned) > bioMinUsefulLen &&
			(existing.Bio == "" ||
				len(cleaned) >= len(existing.Bio)+bioMinGainLen ||
				(len(existing.Bio) < bioShortExistingLen && len(cleaned) > bioMinUsefulLen)) {
			set("bio", cleaned)
			bioSet = true
		}
		set("lastfm_name", st.Artist.Name)
		set("lastfm_synced_at", now)
	}

	// 2. Spotify：数值/标识/快照字段视为点位指标，总是以最新抓取覆盖
	if cat != nil && cat.Artist != nil {
		sp := cat.Artist
		set("popularity", sp.Popularity)
		set("followers", sp.Followers.Total)
		set("genres", mustJSON(sp.Genres))
		set("spotify_id", sp.ID)
		if u := sp.ExternalURLs["spotify"]; u != "" {
			set("spotify_url", u)
		}
		// 快照列是点位指标：抓取成功（哪怕为空）就以最新结果覆盖，失败才保留旧值
		if cat.TopTracksFetched {
			set("top_tracks", mustJSON(buildTrackSnapshots(cat.TopTracks)))
		}
		if cat.AlbumsFetched {
			set("albums", mustJSON(buildAlbumSnapshots(cat.Albums)))
		}

		// 头像：仅在当前为空时设置
		if existing.ImageURL == "" && len(sp.Images) > 0 {
			set("image_url", sp.Images[0].URL)
		}

		// 完全没有简介时，用热度档位+粉丝数+风格列表合成一句模板简介
		if !bioSet && existing.Bio == "" && len(sp.Genres) > 0 {
			set("bio", synthesizeBio(existing.Name, sp.Popularity, sp.Followers.Total, sp.Genres))
		}

		set("spotify_synced_at", now)
	}

	// 3. MusicBrainz：地理信息最权威，area无条件覆盖家乡；URL关系按域名分类
	if md != nil && md.Artist != nil {
		mb := md.Artist
		if mb.Area != nil && mb.Area.Name != "" {
			set("hometown", mb.Area.Name)
		}
		classifyRelations(existing, mb.Relations, set)
		set("musicbrainz_id", mb.ID)
		set("musicbrainz_synced_at", now)
	}

	fields := make([]string, 0, len(updates))
	for column := range updates {
		fields = append(fields, column)
	}
	return updates, fields
}

// CleanLastfmBio 清洗Last.fm简介HTML：去标签、实体解码、截掉结尾归属后缀
func CleanLastfmBio(raw string) string {
	if raw == "" {
		return ""
	}
	text := htmlTagPattern.ReplaceAllString(raw, "")
	text = html.UnescapeString(text)
	if idx := strings.Index(text, lastfmAttribution); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// synthesizeBio 按热度档位合成模板简介（仅在记录完全没有简介时使用）
func synthesizeBio(name string, popularity, followers int, genres []string) string {
	var tier string
	switch {
	case popularity > 70:
		tier = "highly popular"
	case popularity > 50:
		tier = "well-known"
	case popularity > 30:
		tier = "emerging"
	default:
		tier = "rising"
	}
	return fmt.Sprintf("%s is a %s artist with %d followers on Spotify, known for %s.",
		name, tier, followers, strings.Join(genres, ", "))
}

// classifyRelations 把MusicBrainz的URL关系按域名分到对应社交字段；
// official homepage / other databases 仅在网站字段为空时写入
func classifyRelations(existing *model.Artist, relations []model.MusicbrainzRelation, set func(string, interface{})) {
	for _, rel := range relations {
		if rel.URL == nil || rel.URL.Resource == "" {
			continue
		}
		resource := rel.URL.Resource
		switch {
		case strings.Contains(resource, "facebook.com"):
			set("facebook_url", resource)
		case strings.Contains(resource, "instagram.com"):
			set("instagram_url", resource)
		case strings.Contains(resource, "twitter.com"):
			set("twitter_url", resource)
		case strings.Contains(resource, "soundcloud.com"):
			set("soundcloud_url", resource)
		case strings.Contains(resource, "spotify.com/artist/"):
			set("spotify_url", resource)
		case rel.Type == "official homepage" || rel.Type == "other databases":
			if existing.Website == "" {
				set("website", resource)
			}
		}
	}
}

func buildTrackSnapshots(tracks []model.SpotifyTrack) []model.TrackSnapshot {
	if len(tracks) > maxTopTracks {
		tracks = tracks[:maxTopTracks]
	}
	snapshots := make([]model.TrackSnapshot, 0, len(tracks))
	for _, t := range tracks {
		snapshot := model.TrackSnapshot{
			Name:       t.Name,
			Album:      t.Album.Name,
			PreviewURL: t.PreviewURL,
			SpotifyURL: t.ExternalURLs["spotify"],
			Popularity: t.Popularity,
		}
		if len(t.Album.Images) > 0 {
			snapshot.ImageURL = t.Album.Images[0].URL
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}

func buildAlbumSnapshots(albums []model.SpotifyAlbum) []model.AlbumSnapshot {
	if len(albums) > maxAlbums {
		albums = albums[:maxAlbums]
	}
	snapshots := make([]model.AlbumSnapshot, 0, len(albums))
	for _, a := range albums {
		snapshot := model.AlbumSnapshot{
			Name:        a.Name,
			ReleaseDate: a.ReleaseDate,
			TotalTracks: a.TotalTracks,
			SpotifyURL:  a.ExternalURLs["spotify"],
		}
		if len(a.Images) > 0 {
			snapshot.ImageURL = a.Images[0].URL
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}

// mustJSON 序列化为jsonb列值（输入都是本包内结构，失败时兜底空JSON）
func mustJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}
