package article

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/articles/internal/articlerequest"
	"github.com/SergeyParamoshkin/articles/internal/articleresponse"
	"github.com/SergeyParamoshkin/articles/internal/errresponse"
	"github.com/SergeyParamoshkin/articles/internal/logger"
	"github.com/SergeyParamoshkin/articles/internal/store"
)

// Handler serves the articles resource. Every operation reads the whole
// collection from the store and mutations write the whole collection back.
// Overlapping requests are not coordinated: the last save wins.
type Handler struct {
	store store.Store
}

func NewHandler(s store.Store) *Handler {
	return &Handler{store: s}
}

// RegisterRoutes mounts the RESTy routes for the "articles" resource on r,
// which is expected to be routed at /articles.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.NotFound(NotAllowed)
	r.MethodNotAllowed(NotAllowed)

	// The mount also hands /articles/ to "/", which is not the collection.
	r.Group(func(r chi.Router) {
		r.Use(exactCollectionPath)
		r.Get("/", h.ListArticles)    // GET /articles
		r.Post("/", h.CreateArticle) // POST /articles
	})

	// ArticleCtx runs after routing, so a wrong method is a 405 even for an
	// id that does not exist.
	r.Group(func(r chi.Router) {
		r.Use(h.ArticleCtx)                       // Load the collection and *Article on the request context
		r.Get("/{articleID}", h.GetArticle)       // GET /articles/123
		r.Put("/{articleID}", h.UpdateArticle)    // PUT /articles/123
		r.Delete("/{articleID}", h.DeleteArticle) // DELETE /articles/123
	})
}

func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Load(r.Context())
	if err != nil {
		h.fail(w, r, "list articles", err)

		return
	}

	if err := render.RenderList(w, r, articleresponse.NewArticleListResponse(c.Articles)); err != nil {
		h.fail(w, r, "render articles", err)
	}
}

// CreateArticle persists the posted Article and returns it back to the
// client with its assigned id.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Load(r.Context())
	if err != nil {
		h.fail(w, r, "load articles", err)

		return
	}

	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		h.bindFailed(w, r, err)

		return
	}

	article := c.Add(data.Article)

	if err := h.store.Save(r.Context(), c); err != nil {
		h.fail(w, r, "save articles", err)

		return
	}

	logger.FromContext(r.Context()).Debugw("article created", "id", article.ID)

	render.Status(r, http.StatusCreated)
	h.respond(w, r, articleresponse.NewArticleResponse(article))
}

// GetArticle returns the Article loaded by ArticleCtx.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	l := fromContext(r.Context())

	h.respond(w, r, articleresponse.NewArticleResponse(l.article))
}

// UpdateArticle merges the request body over the existing Article. A body
// failing validation leaves the stored article untouched.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	l := fromContext(r.Context())

	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		h.bindFailed(w, r, err)

		return
	}

	article, err := l.collection.Update(l.article.ID, data.Article)
	if err != nil {
		h.fail(w, r, "update article", err)

		return
	}

	if err := h.store.Save(r.Context(), l.collection); err != nil {
		h.fail(w, r, "save articles", err)

		return
	}

	h.respond(w, r, articleresponse.NewArticleResponse(article))
}

// DeleteArticle removes an existing Article and answers with an empty 204.
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	l := fromContext(r.Context())

	if _, err := l.collection.Remove(l.article.ID); err != nil {
		h.fail(w, r, "delete article", err)

		return
	}

	if err := h.store.Save(r.Context(), l.collection); err != nil {
		h.fail(w, r, "save articles", err)

		return
	}

	render.NoContent(w, r)
}

// bindFailed maps a body that decoded but lacks title or content to 400.
// Anything else, malformed JSON included, is a 500.
func (h *Handler) bindFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, articlerequest.ErrValidation) {
		h.respond(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	h.fail(w, r, "decode body", err)
}

// fail logs err and answers with a generic 500 that reveals nothing about it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.FromContext(r.Context()).Errorw(op, "error", err)

	h.respond(w, r, errresponse.ErrInternal(err))
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		logger.FromContext(r.Context()).Errorw("render", "error", err)
	}
}
