package spotify

import (
	"ArtistSync/internal/config"
	"ArtistSync/internal/utils/httpclient"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"ArtistSync/internal/interfaces"
	"ArtistSync/internal/model"

	"github.com/sirupsen/logrus"
)

// Client Spotify Web API 客户端（client-credentials 模式，令牌进程内缓存）
type Client struct {
	cfg        *config.SourceConfig
	httpClient *http.Client
	logger     *logrus.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewSpotifyClient(cfg *config.SourceConfig, logger *logrus.Logger) interfaces.CatalogClient {
	return &Client{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// ensureToken 获取或复用Bearer令牌（过期前60秒视为失效，避免边界竞争）
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(60*time.Second).Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("构建令牌请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求Spotify令牌失败: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Errorf("关闭Spotify令牌响应体失败: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Spotify令牌接口返回异常状态码: %d", resp.StatusCode)
	}

	var tokenResp model.SpotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("解析Spotify令牌响应失败: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("Spotify令牌响应中access_token为空")
	}

	c.token = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.token, nil
}

// getJSON 带Bearer令牌的GET请求，响应反序列化到out
func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求Spotify失败: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Errorf("关闭Spotify响应体失败: %v", err)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Spotify接口返回异常状态码: %d, url: %s", resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析Spotify响应失败: %w", err)
	}
	return nil
}

var errNotFound = fmt.Errorf("Spotify资源不存在")

// LookupArtist 按Spotify艺人ID直查
func (c *Client) LookupArtist(ctx context.Context, id string) (*model.SpotifyArtist, error) {
	var artist model.SpotifyArtist
	artistURL := fmt.Sprintf("%s/artists/%s", c.cfg.BaseURL, url.PathEscape(id))
	if err := c.getJSON(ctx, artistURL, &artist); err != nil {
		return nil, err
	}
	if artist.ID == "" {
		return nil, nil
	}
	return &artist, nil
}

// SearchArtist 按名称搜索，取搜索引擎排名第一的结果（不做额外消歧）
func (c *Client) SearchArtist(ctx context.Context, name string) (*model.SpotifyArtist, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s&type=artist&limit=1", c.cfg.BaseURL, url.QueryEscape(name))
	var searchResp model.SpotifySearchResponse
	if err := c.getJSON(ctx, searchURL, &searchResp); err != nil {
		return nil, err
	}
	if len(searchResp.Artists.Items) == 0 {
		return nil, nil
	}
	return &searchResp.Artists.Items[0], nil
}

// TopTracks 热门曲目（market固定US）
func (c *Client) TopTracks(ctx context.Context, id string) ([]model.SpotifyTrack, error) {
	tracksURL := fmt.Sprintf("%s/artists/%s/top-tracks?market=US", c.cfg.BaseURL, url.PathEscape(id))
	var tracksResp model.SpotifyTopTracksResponse
	if err := c.getJSON(ctx, tracksURL, &tracksResp); err != nil {
		return nil, err
	}
	return tracksResp.Tracks, nil
}

// Albums 专辑列表（仅album类型，取前20张）
func (c *Client) Albums(ctx context.Context, id string) ([]model.SpotifyAlbum, error) {
	albumsURL := fmt.Sprintf("%s/artists/%s/albums?include_groups=album&limit=20", c.cfg.BaseURL, url.PathEscape(id))
	var albumsResp model.SpotifyAlbumsResponse
	if err := c.getJSON(ctx, albumsURL, &albumsResp); err != nil {
		return nil, err
	}
	return albumsResp.Items, nil
}
