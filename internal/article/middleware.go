package article

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/articles/internal/errresponse"
	"github.com/SergeyParamoshkin/articles/internal/logger"
	"github.com/SergeyParamoshkin/articles/internal/model"
)

type ctxKey int8

const ctxKeyArticle ctxKey = iota

// loaded is what ArticleCtx leaves on the context: the collection as read
// from the store and the article addressed by the URL.
type loaded struct {
	collection *model.Collection
	article    *model.Article
}

// ArticleCtx middleware is used to load the collection and the Article named
// by the URL parameter. In case the Article could not be found, we stop here
// and return a 404. An id that is not an integer never matches.
func (h *Handler) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := h.store.Load(r.Context())
		if err != nil {
			h.fail(w, r, "load articles", err)

			return
		}

		id, err := strconv.Atoi(chi.URLParam(r, "articleID"))
		if err != nil {
			h.respond(w, r, errresponse.ErrNotFound)

			return
		}

		article, err := c.Get(id)
		if err != nil {
			h.respond(w, r, errresponse.ErrNotFound)

			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticle, &loaded{collection: c, article: article})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// exactCollectionPath sends a trailing-slash request for the collection to
// NotAllowed.
func exactCollectionPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			NotAllowed(w, r)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// fromContext returns what ArticleCtx loaded. Handlers mounted under
// ArticleCtx can rely on it; if not, Recoverer turns the panic into a 500.
func fromContext(ctx context.Context) *loaded {
	return ctx.Value(ctxKeyArticle).(*loaded)
}

// NotAllowed answers every method/path combination the router does not serve.
func NotAllowed(w http.ResponseWriter, r *http.Request) {
	if err := render.Render(w, r, errresponse.ErrMethodNotAllowed(r.Method)); err != nil {
		logger.FromContext(r.Context()).Errorw("render", "error", err)
	}
}
