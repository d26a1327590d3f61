// Package api is the thin gin-based REST front door over the engine's
// public operations (spec.md §6), grounded on the teacher's
// ApiController.go/router.go split.
package api

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/berejant/sheetengine/contracts"
	"github.com/berejant/sheetengine/errs"
	"github.com/berejant/sheetengine/sheet"
)

// Controller implements contracts.ApiController over a shared Store and
// Notifier, lazily loading one in-memory Engine per sheet id on first
// reference.
type Controller struct {
	store    contracts.Store
	notifier contracts.Notifier

	mu      sync.Mutex
	engines map[string]*sheet.Engine
}

// NewController builds a Controller. notifier may be nil to disable
// webhook dispatch entirely.
func NewController(store contracts.Store, notifier contracts.Notifier) *Controller {
	return &Controller{
		store:    store,
		notifier: notifier,
		engines:  map[string]*sheet.Engine{},
	}
}

// engineFor returns the cached Engine for sheetId, building and replaying
// one from the store on first reference.
func (api *Controller) engineFor(sheetId string) (*sheet.Engine, error) {
	sheetId = strings.ToLower(sheetId)

	api.mu.Lock()
	defer api.mu.Unlock()

	if e, ok := api.engines[sheetId]; ok {
		return e, nil
	}

	e := sheet.New(sheetId, api.store)
	if err := e.LoadFromStore(); err != nil {
		return nil, err
	}
	if api.notifier != nil {
		e.SetNotifier(api.notifier)
	}

	api.engines[sheetId] = e
	return e, nil
}

type cellEndpointParams struct {
	SheetId string `uri:"sheet_id" binding:"required"`
	CellId  string `uri:"cell_id" binding:"required"`
}

type sheetEndpointParams struct {
	SheetId string `uri:"sheet_id" binding:"required"`
}

type setCellRequest struct {
	Formula string `json:"formula"`
}

type copyCellRequest struct {
	From string `json:"from" binding:"required"`
}

type subscribeRequest struct {
	WebhookUrl string `json:"webhook_url"`
}

// respondErr maps an engine error to an HTTP status via the spec.md §7
// error taxonomy.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.Syntax), errors.Is(err, errs.CircularRef), errors.Is(err, errs.Limits):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, errs.DB):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// SetCellAction handles POST /:sheet_id/:cell_id.
func (api *Controller) SetCellAction(c *gin.Context) {
	var params cellEndpointParams
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req setCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine, err := api.engineFor(params.SheetId)
	if err != nil {
		respondErr(c, err)
		return
	}

	updates, err := engine.Eval(params.CellId, req.Formula)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, updates)
}

// GetCellAction handles GET /:sheet_id/:cell_id.
func (api *Controller) GetCellAction(c *gin.Context) {
	var params cellEndpointParams
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine, err := api.engineFor(params.SheetId)
	if err != nil {
		respondErr(c, err)
		return
	}

	cell, err := engine.Query(params.CellId)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, cell)
}

// DeleteCellAction handles DELETE /:sheet_id/:cell_id.
func (api *Controller) DeleteCellAction(c *gin.Context) {
	var params cellEndpointParams
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine, err := api.engineFor(params.SheetId)
	if err != nil {
		respondErr(c, err)
		return
	}

	updates, err := engine.Delete(params.CellId)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, updates)
}

// CopyCellAction handles POST /:sheet_id/:cell_id/copy.
func (api *Controller) CopyCellAction(c *gin.Context) {
	var params cellEndpointParams
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req copyCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine, err := api.engineFor(params.SheetId)
	if err != nil {
		respondErr(c, err)
		return
	}

	updates, err := engine.Copy(params.CellId, req.From)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, updates)
}

// SubscribeAction handles POST /:sheet_id/:cell_id/subscribe. It talks
// straight to the Notifier — registering a webhook never touches the
// engine's evaluation state.
func (api *Controller) SubscribeAction(c *gin.Context) {
	var params cellEndpointParams
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if api.notifier != nil {
		api.notifier.SetWebhookUrl(strings.ToLower(params.SheetId), strings.ToLower(params.CellId), req.WebhookUrl)
	}

	c.Status(http.StatusNoContent)
}

// GetSheetAction handles GET /:sheet_id.
func (api *Controller) GetSheetAction(c *gin.Context) {
	var params sheetEndpointParams
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine, err := api.engineFor(params.SheetId)
	if err != nil {
		respondErr(c, err)
		return
	}

	cells, err := engine.ValueFormulas(nil)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, cells)
}

// ClearSheetAction handles DELETE /:sheet_id.
func (api *Controller) ClearSheetAction(c *gin.Context) {
	var params sheetEndpointParams
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine, err := api.engineFor(params.SheetId)
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := engine.Clear(); err != nil {
		respondErr(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
