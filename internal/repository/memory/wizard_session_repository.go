package memory

import (
	"ai-deckbot-be/pkg/store"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultSessionTTL      = 1 * time.Hour
	DefaultCleanupInterval = 10 * time.Minute
)

// WizardSessionRepository is a go-cache backed store.SessionStore. Abandoned
// sessions expire after the TTL.
type WizardSessionRepository struct {
	cache *cache.Cache
}

var _ store.SessionStore = (*WizardSessionRepository)(nil)

func NewWizardSessionRepository(ttl, cleanup time.Duration) *WizardSessionRepository {
	return &WizardSessionRepository{
		cache: cache.New(ttl, cleanup),
	}
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Save stores a copy of session and refreshes its expiry.
func (r *WizardSessionRepository) Save(session *store.Session) {
	cp := *session
	cp.UpdatedAt = time.Now()
	r.cache.Set(key(session.UserID), &cp, cache.DefaultExpiration)
}

// Get returns a copy, so callers mutate state only through Save.
func (r *WizardSessionRepository) Get(userID int64) (*store.Session, bool) {
	if x, found := r.cache.Get(key(userID)); found {
		cp := *x.(*store.Session)
		return &cp, true
	}
	return nil, false
}

func (r *WizardSessionRepository) Remove(userID int64) {
	r.cache.Delete(key(userID))
}

func (r *WizardSessionRepository) Count() int {
	return r.cache.ItemCount()
}
