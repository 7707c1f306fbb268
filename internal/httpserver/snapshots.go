package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"orderpad/internal/domain"
	"orderpad/internal/service/draft"
)

func getPricesHandler(c *gin.Context) {
	sess := sessionFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"customerId": sess.Store().CustomerID(),
		"prices":     sess.Cache().Resolved(),
	})
}

type refreshPricesRequest struct {
	Itemcodes []string `json:"itemcodes"`
	Force     bool     `json:"force"`
}

// refreshPricesHandler resolves prices either for an explicit code list (the
// rows on the agent's screen) or, without one, for the cart lines.
func refreshPricesHandler(c *gin.Context) {
	var req refreshPricesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
	}
	sess := sessionFrom(c)
	if len(req.Itemcodes) > 0 {
		sess.Prefetch(c.Request.Context(), req.Itemcodes, req.Force)
	} else {
		sess.PrefetchLines(c.Request.Context(), req.Force)
	}
	c.JSON(http.StatusOK, gin.H{
		"customerId": sess.Store().CustomerID(),
		"prices":     sess.Cache().Resolved(),
	})
}

type saveSnapshotRequest struct {
	Label string `json:"label"`
}

func saveSnapshotHandler(c *gin.Context) {
	var req saveSnapshotRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
	}
	info, err := sessionFrom(c).SaveSnapshot(c.Request.Context(), req.Label)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save snapshot"})
		return
	}
	c.JSON(http.StatusCreated, info)
}

func listSnapshotsHandler(c *gin.Context) {
	infos, err := sessionFrom(c).ListSnapshots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list snapshots"})
		return
	}
	if infos == nil {
		infos = make([]draft.SnapshotInfo, 0)
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": infos})
}

func restoreSnapshotHandler(c *gin.Context) {
	sess := sessionFrom(c)
	if _, err := sess.RestoreSnapshot(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "restore snapshot"})
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

func deleteSnapshotHandler(c *gin.Context) {
	if err := sessionFrom(c).DeleteSnapshot(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete snapshot"})
		return
	}
	c.Status(http.StatusNoContent)
}
