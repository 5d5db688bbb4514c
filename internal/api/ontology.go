package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/middleware"
	"github.com/lexiconlab/babelex/internal/models"
)

// OntologyHandler serves synset and lemma lookups.
type OntologyHandler struct {
	ontology domain.Ontology
	log      *logrus.Logger
}

// NewOntologyHandler creates an OntologyHandler.
func NewOntologyHandler(ontology domain.Ontology, log *logrus.Logger) *OntologyHandler {
	return &OntologyHandler{ontology: ontology, log: log}
}

// Edges handles GET /api/v1/synsets/:id/edges?relation=...
func (h *OntologyHandler) Edges(c *gin.Context) {
	id, ok := pathSynset(c)
	if !ok {
		return
	}

	kinds, ok := queryKinds(c)
	if !ok {
		return
	}

	rels, err := h.ontology.Edges(c.Request.Context(), id, kinds...)
	if err != nil {
		h.respondLookupError(c, err, "edges")
		return
	}

	if rels == nil {
		rels = []models.Relation{}
	}

	c.JSON(http.StatusOK, models.EdgesResponse{Synset: id, Edges: rels})
}

// Senses handles GET /api/v1/synsets/:id/senses?language=EN
func (h *OntologyHandler) Senses(c *gin.Context) {
	id, ok := pathSynset(c)
	if !ok {
		return
	}

	lang, ok := queryLanguage(c)
	if !ok {
		return
	}

	senses, err := h.ontology.Senses(c.Request.Context(), id, lang)
	if err != nil {
		h.respondLookupError(c, err, "senses")
		return
	}

	if senses == nil {
		senses = []models.Sense{}
	}

	c.JSON(http.StatusOK, models.SensesResponse{Synset: id, Language: lang, Senses: senses})
}

// SynsetsByLemma handles GET /api/v1/lemmas/:lemma/synsets?language=EN&pos=n
func (h *OntologyHandler) SynsetsByLemma(c *gin.Context) {
	lemma := c.Param("lemma")
	if err := validateLemma(lemma); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, middleware.ErrCodeInvalidRequest, err.Error())
		return
	}

	lang, ok := queryLanguage(c)
	if !ok {
		return
	}

	pos, err := models.ParsePOS(c.Query("pos"))
	if err != nil {
		middleware.RespondError(c, http.StatusBadRequest, middleware.ErrCodeInvalidRequest, err.Error())
		return
	}

	ids, err := h.ontology.SynsetsByLemma(c.Request.Context(), lemma, lang, pos)
	if err != nil {
		h.respondLookupError(c, err, "synsets by lemma")
		return
	}

	if ids == nil {
		ids = []models.NodeID{}
	}

	c.JSON(http.StatusOK, models.LemmaSynsetsResponse{Lemma: lemma, Language: lang, POS: pos, Synsets: ids})
}

func (h *OntologyHandler) respondLookupError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, models.ErrSynsetNotFound):
		middleware.RespondError(c, http.StatusNotFound, middleware.ErrCodeNotFound, "synset not found")
	case errors.Is(err, models.ErrInvalidNodeID):
		middleware.RespondError(c, http.StatusBadRequest, middleware.ErrCodeInvalidRequest, err.Error())
	default:
		h.log.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey)).Error("looking up " + what)
		middleware.RespondError(c, http.StatusInternalServerError, middleware.ErrCodeInternalError, "failed to look up "+what)
	}
}
