package lastfm

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

// Client Last.fm API 客户端（api_key参数认证）
type Client struct {
	cfg        *config.SourceConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewLastfmClient(cfg *config.SourceConfig, logger *logrus.Logger) interfaces.StatsClient {
	return &Client{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// ArtistInfo 调用 artist.getinfo 获取简介HTML、收听统计与标签
func (c *Client) ArtistInfo(ctx context.Context, name string) (*model.LastfmArtist, error) {
	params := url.Values{}
	params.Set("method", "artist.getinfo")
	params.Set("artist", name)
	params.Set("api_key", c.cfg.APIKey)
	params.Set("format", "json")
	infoURL := fmt.Sprintf("%s/?%s", c.cfg.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构建Last.fm请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求Last.fm失败: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Errorf("关闭Last.fm响应体失败: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Last.fm接口返回异常状态码: %d", resp.StatusCode)
	}

	var infoResp model.LastfmArtistInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&infoResp); err != nil {
		return nil, fmt.Errorf("解析Last.fm响应失败: %w", err)
	}
	// Last.fm 以 200 + error 字段表达接口级错误（如艺人不存在）
	if infoResp.Error != 0 {
		return nil, fmt.Errorf("Last.fm接口错误: %d %s", infoResp.Error, infoResp.Message)
	}
	if infoResp.Artist == nil {
		return nil, fmt.Errorf("Last.fm未返回艺人信息: %s", name)
	}
	return infoResp.Artist, nil
}
