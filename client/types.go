package client

import "github.com/lexiconlab/babelex/internal/models"

// Wire types shared with the server.
type (
	HealthResponse       = models.HealthResponse
	EdgesResponse        = models.EdgesResponse
	SensesResponse       = models.SensesResponse
	LemmaSynsetsResponse = models.LemmaSynsetsResponse
)
