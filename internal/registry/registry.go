package registry

import (
	"sync"

	"github.com/azfin-hq/azfinnews/internal/domain"
)

// Registry is the shared, ordered collection of currently displayed articles.
// The background poll loop appends to it while the interactive session reads
// and wholesale-replaces it, so every read-modify-write goes through one
// mutex.
type Registry struct {
	mu       sync.RWMutex
	articles []domain.Article
}

// New builds a registry seeded with the given articles (may be nil).
func New(seed []domain.Article) *Registry {
	r := &Registry{}
	if len(seed) > 0 {
		r.articles = append(r.articles, seed...)
	}
	return r
}

// AppendIfAbsent adds the article unless its link is already present. It
// reports whether the article was appended.
func (r *Registry) AppendIfAbsent(article domain.Article) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.articles {
		if existing.Link == article.Link {
			return false
		}
	}
	r.articles = append(r.articles, article)
	return true
}

// Replace swaps the full contents for the given articles.
func (r *Registry) Replace(articles []domain.Article) {
	cp := make([]domain.Article, len(articles))
	copy(cp, articles)

	r.mu.Lock()
	r.articles = cp
	r.mu.Unlock()
}

// Snapshot returns a copy of the current contents in display order.
func (r *Registry) Snapshot() []domain.Article {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Article, len(r.articles))
	copy(out, r.articles)
	return out
}

// At returns the article at the 1-based index shown to the user.
func (r *Registry) At(index int) (domain.Article, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 1 || index > len(r.articles) {
		return domain.Article{}, false
	}
	return r.articles[index-1], true
}

// Len returns the number of displayed articles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.articles)
}
