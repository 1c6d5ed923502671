package analytics

import (
	"context"
	"log"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/makerfolio/makerfolio-go/config"
	"github.com/makerfolio/makerfolio-go/models"
	"github.com/makerfolio/makerfolio-go/store"
)

// IdentityResolver resolves current display info for an actor
type IdentityResolver interface {
	Get(ctx context.Context, actorID string) (*models.Identity, bool, error)
}

// Ranker produces bounded, ordered actor leaderboards with display info
// attached. Identity lookups go through a bounded LRU so a dashboard load
// does not hammer the profile collection.
type Ranker struct {
	resolver   IdentityResolver
	identities *lru.Cache[string, *models.Identity]
}

// NewRanker creates a new ranker
func NewRanker(resolver IdentityResolver) *Ranker {
	identities, err := lru.New[string, *models.Identity](config.IdentityCacheEntries)
	if err != nil {
		// Only reachable with a non-positive size
		log.Printf("ERROR: identity cache init failed: %v", err)
	}
	return &Ranker{
		resolver:   resolver,
		identities: identities,
	}
}

// Rank orders actors by interaction count descending, breaking ties by most
// recent interaction; ties that survive both keys keep encounter order. The
// result is truncated to k and enriched with current display info.
func (r *Ranker) Rank(ctx context.Context, activity []store.ActorActivity, k int) []models.TopKEntry {
	ordered := make([]store.ActorActivity, len(activity))
	copy(ordered, activity)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Count != ordered[j].Count {
			return ordered[i].Count > ordered[j].Count
		}
		return ordered[i].LastSeen.After(ordered[j].LastSeen)
	})

	return r.enrich(ctx, ordered, k)
}

// enrich attaches display info in the given order, keeping at most k
// entries. An actor whose identity cannot be resolved is dropped rather than
// shown as a fake account; an account that exists but carries no display
// name is kept with an explicit placeholder.
func (r *Ranker) enrich(ctx context.Context, ordered []store.ActorActivity, k int) []models.TopKEntry {
	entries := make([]models.TopKEntry, 0, k)
	for _, a := range ordered {
		if len(entries) >= k {
			break
		}

		identity, found := r.lookup(ctx, a.ActorID)
		if !found {
			continue
		}

		displayName := identity.DisplayName
		if displayName == "" {
			displayName = "Unknown user"
		}

		entries = append(entries, models.TopKEntry{
			ActorID:          a.ActorID,
			DisplayName:      displayName,
			AvatarURL:        identity.AvatarURL,
			InteractionCount: a.Count,
			LastInteraction:  a.LastSeen,
		})
	}
	return entries
}

func (r *Ranker) lookup(ctx context.Context, actorID string) (*models.Identity, bool) {
	if r.identities != nil {
		if identity, found := r.identities.Get(actorID); found {
			return identity, true
		}
	}

	identity, found, err := r.resolver.Get(ctx, actorID)
	if err != nil {
		log.Printf("ERROR: identity lookup failed for %s: %v", actorID, err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	if r.identities != nil {
		r.identities.Add(actorID, identity)
	}
	return identity, true
}
