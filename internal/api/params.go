package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexiconlab/babelex/internal/middleware"
	"github.com/lexiconlab/babelex/internal/models"
)

// maxLemmaLen bounds the lemma path parameter.
const maxLemmaLen = 255

// pathSynset reads and validates the :id parameter; on failure it has
// already written a 400.
func pathSynset(c *gin.Context) (models.NodeID, bool) {
	id := models.NodeID(c.Param("id"))
	if err := id.Validate(); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, middleware.ErrCodeInvalidRequest, err.Error())
		return "", false
	}

	return id, true
}

// queryLanguage reads ?language=, defaulting to models.DefaultLanguage.
func queryLanguage(c *gin.Context) (models.Language, bool) {
	raw := c.Query("language")
	if raw == "" {
		return models.DefaultLanguage, true
	}

	lang, err := models.ParseLanguage(raw)
	if err != nil {
		middleware.RespondError(c, http.StatusBadRequest, middleware.ErrCodeInvalidRequest, err.Error())
		return "", false
	}

	return lang, true
}

// queryKinds reads repeated ?relation= parameters. None means all kinds.
func queryKinds(c *gin.Context) ([]models.RelationKind, bool) {
	raw := c.QueryArray("relation")
	kinds := make([]models.RelationKind, 0, len(raw))

	for _, r := range raw {
		k, err := models.ParseRelationKind(r)
		if err != nil {
			middleware.RespondError(c, http.StatusBadRequest, middleware.ErrCodeInvalidRequest, err.Error())
			return nil, false
		}

		kinds = append(kinds, k)
	}

	return kinds, true
}

func validateLemma(lemma string) error {
	if lemma == "" {
		return fmt.Errorf("lemma must not be empty")
	}
	if len(lemma) > maxLemmaLen {
		return models.ErrFieldTooLong("lemma", maxLemmaLen)
	}
	return nil
}
