package musicbrainz

import (
	"ArtistSync/internal/config"
	"ArtistSync/internal/utils/httpclient"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"ArtistSync/internal/interfaces"
	"ArtistSync/internal/model"

	"github.com/sirupsen/logrus"
)

// Client MusicBrainz WS/2 客户端（免认证，但强制要求User-Agent，否则会被限流拒绝）
type Client struct {
	cfg        *config.SourceConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewMusicbrainzClient(cfg *config.SourceConfig, logger *logrus.Logger) interfaces.MetadataClient {
	return &Client{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// getJSON 带User-Agent的GET请求，响应反序列化到out
func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("构建MusicBrainz请求失败: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求MusicBrainz失败: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Errorf("关闭MusicBrainz响应体失败: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("MusicBrainz接口返回异常状态码: %d, url: %s", resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析MusicBrainz响应失败: %w", err)
	}
	return nil
}

// SearchArtist 按名称搜索取首个结果，再按MBID补拉URL关系与地区
func (c *Client) SearchArtist(ctx context.Context, name string) (*model.MusicbrainzArtist, error) {
	query := url.QueryEscape(fmt.Sprintf(`artist:"%s"`, name))
	searchURL := fmt.Sprintf("%s/artist?query=%s&limit=1&fmt=json", c.cfg.BaseURL, query)

	var searchResp model.MusicbrainzSearchResponse
	if err := c.getJSON(ctx, searchURL, &searchResp); err != nil {
		return nil, err
	}
	if len(searchResp.Artists) == 0 {
		return nil, nil
	}

	// 搜索结果不含relations，按MBID二次查询url-rels；失败则退回搜索结果（地区信息仍可用）
	hit := searchResp.Artists[0]
	lookupURL := fmt.Sprintf("%s/artist/%s?inc=url-rels&fmt=json", c.cfg.BaseURL, url.PathEscape(hit.ID))
	var detail model.MusicbrainzArtist
	if err := c.getJSON(ctx, lookupURL, &detail); err != nil {
		c.logger.WithError(err).WithField("mbid", hit.ID).Warn("MusicBrainz按ID补拉关系失败，使用搜索结果兜底")
		return &hit, nil
	}
	if detail.Area == nil {
		detail.Area = hit.Area
	}
	return &detail, nil
}
