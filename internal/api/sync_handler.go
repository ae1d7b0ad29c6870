package api

import (
	"context"
	"errors"
	"net/http"

	"ArtistSync/internal/config"
	"ArtistSync/internal/model"
	"ArtistSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// batchSyncer SyncHandler 对同步服务的最小依赖（单测注入假实现用）
type batchSyncer interface {
	BatchSync(ctx context.Context, ids []uint64) (*model.BatchReport, error)
}

type SyncHandler struct {
	syncService batchSyncer
	logger      *logrus.Logger
}

func NewSyncHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *SyncHandler {
	return &SyncHandler{
		syncService: service.NewSyncService(db, logger, cfg),
		logger:      logger,
	}
}

// batchSyncRequest 批量同步请求体（artist_ids缺省表示同步全部）
type batchSyncRequest struct {
	ArtistIDs []uint64 `json:"artist_ids"`
}

// BatchSyncHandler 批量同步艺人
// @Summary 批量同步艺人三方数据
// @Param artist_ids body []uint64 false "艺人ID列表（缺省同步全部）"
// @Success 200 {object} model.BatchReport
// @Failure 500 {object} map[string]string
// @Router /sync/artists [post]
func (h *SyncHandler) BatchSyncHandler(c *gin.Context) {
	var req batchSyncRequest
	// 请求体可为空（同步全部），解析失败按空处理
	_ = c.ShouldBindJSON(&req)

	report, err := h.syncService.BatchSync(c.Request.Context(), req.ArtistIDs)
	if err != nil {
		h.logger.WithError(err).Error("批量同步失败")
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrMissingCredentials) {
			// 配置错误：任何网络调用前快速失败
			status = http.StatusPreconditionFailed
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
