package contracts

import "github.com/gin-gonic/gin"

// ApiController is the thin REST front door over the Engine's public API
// (spec.md §6), grounded on the teacher's own ApiController/router split.
type ApiController interface {
	SetCellAction(c *gin.Context)
	GetCellAction(c *gin.Context)
	DeleteCellAction(c *gin.Context)
	CopyCellAction(c *gin.Context)
	SubscribeAction(c *gin.Context)
	GetSheetAction(c *gin.Context)
	ClearSheetAction(c *gin.Context)
}

// Cell is the JSON shape returned for a single cell query: its cached
// value and the formula text that produced it (empty string for a cell
// with no formula).
type Cell struct {
	Value   float64 `json:"value"`
	Formula string  `json:"formula"`
}
