package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"ArtistSync/internal/adapter/lastfm"
	"ArtistSync/internal/adapter/musicbrainz"
	"ArtistSync/internal/adapter/spotify"
	"ArtistSync/internal/config"
	"ArtistSync/internal/interfaces"
	"ArtistSync/internal/metrics"
	"ArtistSync/internal/model"
	"ArtistSync/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 错误分类：凭证缺失在任何网络调用前快速失败；主源未命中只让该艺人失败
var (
	ErrMissingCredentials = errors.New("缺少Spotify API凭证（client_id/client_secret）")
	ErrArtistNotFound     = errors.New("未在Spotify找到该艺人")
)

// spotifyURLPattern 从Spotify主页地址中按固定路径段提取艺人ID（artist/{id}）
var spotifyURLPattern = regexp.MustCompile(`artist/([0-9A-Za-z]+)`)

// SyncService 艺人三方数据归并同步服务
type SyncService struct {
	logger     *logrus.Logger
	cfg        *config.Config
	artistRepo repository.ArtistRepository
	catalog    interfaces.CatalogClient
	stats      interfaces.StatsClient
	metadata   interfaces.MetadataClient
}

func NewSyncService(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *SyncService {
	spotifyCfg := cfg.Sources["spotify"]
	lastfmCfg := cfg.Sources["lastfm"]
	musicbrainzCfg := cfg.Sources["musicbrainz"]
	return &SyncService{
		logger:     logger,
		cfg:        cfg,
		artistRepo: repository.NewArtistRepository(db),
		catalog:    spotify.NewSpotifyClient(&spotifyCfg, logger),
		stats:      lastfm.NewLastfmClient(&lastfmCfg, logger),
		metadata:   musicbrainz.NewMusicbrainzClient(&musicbrainzCfg, logger),
	}
}

// SyncArtist 同步单个艺人：Spotify主查询（ID直查->名称搜索兜底），
// 命中后三个辅助资源并发尽力抓取，纯归并后单次落库。
// 主源未命中或落库失败才算该艺人失败，辅助源失败只降低归并质量
func (s *SyncService) SyncArtist(ctx context.Context, artist *model.Artist) model.SyncResult {
	result := model.SyncResult{ArtistID: artist.ID, Name: artist.Name}

	// 1. Spotify主查询
	spotifyArtist, err := s.lookupOnSpotify(ctx, artist)
	if err != nil {
		result.Error = err.Error()
		metrics.SyncTotal.WithLabelValues("failed").Inc()
		return result
	}
	result.MatchedSources = append(result.MatchedSources, model.SourceSpotify)

	// 2. 辅助资源并发抓取（join-all：单个失败不取消兄弟任务，只记告警）
	cat := &model.CatalogSnapshot{Artist: spotifyArtist}
	var st *model.StatsSnapshot
	var md *model.MetadataSnapshot

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		tracks, err := s.catalog.TopTracks(ctx, spotifyArtist.ID)
		if err != nil {
			s.logger.WithError(err).WithField("artist", artist.Name).Warn("抓取热门曲目失败，跳过该项")
			return
		}
		cat.TopTracks = tracks
		cat.TopTracksFetched = true
	}()
	go func() {
		defer wg.Done()
		albums, err := s.catalog.Albums(ctx, spotifyArtist.ID)
		if err != nil {
			s.logger.WithError(err).WithField("artist", artist.Name).Warn("抓取专辑列表失败，跳过该项")
			return
		}
		cat.Albums = albums
		cat.AlbumsFetched = true
	}()
	go func() {
		defer wg.Done()
		info, err := s.stats.ArtistInfo(ctx, artist.Name)
		if err != nil {
			s.logger.WithError(err).WithField("artist", artist.Name).Warn("抓取Last.fm信息失败，跳过该源")
			return
		}
		st = &model.StatsSnapshot{Artist: info}
	}()
	go func() {
		defer wg.Done()
		mbArtist, err := s.metadata.SearchArtist(ctx, artist.Name)
		if err != nil {
			s.logger.WithError(err).WithField("artist", artist.Name).Warn("抓取MusicBrainz信息失败，跳过该源")
			return
		}
		if mbArtist != nil {
			md = &model.MetadataSnapshot{Artist: mbArtist}
		}
	}()
	wg.Wait()

	if st != nil {
		result.MatchedSources = append(result.MatchedSources, model.SourceLastfm)
	}
	if md != nil {
		result.MatchedSources = append(result.MatchedSources, model.SourceMusicbrainz)
	}

	// 3. 纯归并 + 单次字段级更新
	updates, fields := MergeArtistFields(artist, cat, st, md, time.Now())
	if err := s.artistRepo.UpdateFields(ctx, artist.ID, updates); err != nil {
		result.Error = err.Error()
		metrics.SyncTotal.WithLabelValues("failed").Inc()
		return result
	}

	result.Success = true
	result.UpdatedFields = fields
	metrics.SyncTotal.WithLabelValues("success").Inc()
	return result
}

// lookupOnSpotify 主源查询：已有ID（或可从主页地址解析出ID）则直查，失败退回名称搜索取第一名
func (s *SyncService) lookupOnSpotify(ctx context.Context, artist *model.Artist) (*model.SpotifyArtist, error) {
	id := artist.SpotifyID
	if id == "" && artist.SpotifyURL != "" {
		if m := spotifyURLPattern.FindStringSubmatch(artist.SpotifyURL); m != nil {
			id = m[1]
		}
	}

	if id != "" {
		spotifyArtist, err := s.catalog.LookupArtist(ctx, id)
		if err == nil && spotifyArtist != nil {
			return spotifyArtist, nil
		}
		if err != nil {
			s.logger.WithError(err).WithField("spotify_id", id).Warn("Spotify按ID直查失败，退回名称搜索")
		}
	}

	spotifyArtist, err := s.catalog.SearchArtist(ctx, artist.Name)
	if err != nil {
		return nil, fmt.Errorf("Spotify搜索失败: %w", err)
	}
	if spotifyArtist == nil {
		return nil, ErrArtistNotFound
	}
	return spotifyArtist, nil
}

// BatchSync 批量同步：ids为空则同步全部艺人。
// 固定大小分批（批内并发、批间固定延迟限流），逐个聚合结果，
// 单个艺人失败不会中止整个批次——报告永远覆盖完整列表
func (s *SyncService) BatchSync(ctx context.Context, ids []uint64) (*model.BatchReport, error) {
	// 前置校验：凭证缺失整批快速失败（配置错误，而非部分失败）
	spotifyCfg := s.cfg.Sources["spotify"]
	if spotifyCfg.ClientID == "" || spotifyCfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	// 输入ID去重（保序）：重复ID只同步一次、只计一条报告明细
	if len(ids) > 0 {
		seen := make(map[uint64]bool, len(ids))
		unique := make([]uint64, 0, len(ids))
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				unique = append(unique, id)
			}
		}
		ids = unique
	}

	var artists []*model.Artist
	var err error
	if len(ids) == 0 {
		artists, err = s.artistRepo.ListAll(ctx)
	} else {
		artists, err = s.artistRepo.ListByIDs(ctx, ids)
	}
	if err != nil {
		return nil, fmt.Errorf("查询待同步艺人失败: %w", err)
	}

	report := &model.BatchReport{
		SourceMatches: make(map[string]int),
	}

	// 指定了ID列表时，total按输入数计；库中不存在的ID记为失败明细
	if len(ids) > 0 {
		report.Total = len(ids)
		found := make(map[uint64]bool, len(artists))
		for _, a := range artists {
			found[a.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				report.Failed++
				report.FailedArtists = append(report.FailedArtists, model.FailedArtist{
					Name:  fmt.Sprintf("artist_id=%d", id),
					Error: "艺人记录不存在",
				})
			}
		}
	} else {
		report.Total = len(artists)
	}

	chunkSize := s.cfg.Sync.ChunkSize
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkSize
	}

	var mu sync.Mutex
	for start := 0; start < len(artists); start += chunkSize {
		end := start + chunkSize
		if end > len(artists) {
			end = len(artists)
		}

		var wg sync.WaitGroup
		for _, artist := range artists[start:end] {
			wg.Add(1)
			go func(a *model.Artist) {
				defer wg.Done()
				res := s.SyncArtist(ctx, a)

				mu.Lock()
				defer mu.Unlock()
				if res.Success {
					report.Successful++
				} else {
					report.Failed++
					report.FailedArtists = append(report.FailedArtists, model.FailedArtist{
						Name:  res.Name,
						Error: res.Error,
					})
				}
				for _, source := range res.MatchedSources {
					report.SourceMatches[source]++
				}
			}(artist)
		}
		wg.Wait()

		// 批间固定延迟，尊重外部API限流（最后一批后不再等待）
		if end < len(artists) {
			time.Sleep(s.cfg.Sync.ChunkDelay)
		}
	}

	s.logger.Infof("批量同步完成：共%d，成功%d，失败%d", report.Total, report.Successful, report.Failed)
	return report, nil
}
