package player

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Target is what a factory wraps: the vendor player object and, for players
// embedded in a page, the page document.
type Target struct {
	Player   any
	Document Document
}

// Factory builds an adapter for a target of one vendor.
type Factory func(target Target) (Adapter, error)

// Registry of adapter factories keyed by kind.
var Registry = map[Kind]Factory{}

// Register adds a factory for a kind.
func Register(kind Kind, f Factory) {
	Registry[Kind(strings.ToLower(string(kind)))] = f
}

// Kinds lists the registered kinds in name order.
func Kinds() []Kind {
	kinds := lo.Keys(Registry)
	slices.Sort(kinds)
	return kinds
}

// ParseKind normalizes a player name such as "JW Player" or "video.js".
func ParseKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer(" ", "", ".", "", "-", "", "_", "").Replace(normalized)

	switch normalized {
	case "", "html", "html5", "video":
		return KindHTML5, nil
	case "jw", "jwplayer":
		return KindJWPlayer, nil
	}

	if _, ok := Registry[Kind(normalized)]; ok {
		return Kind(normalized), nil
	}
	return "", fmt.Errorf("unknown player %q", name)
}

// New returns an adapter for target using the factory registered for kind.
func New(kind Kind, target Target) (Adapter, error) {
	factory, ok := Registry[Kind(strings.ToLower(string(kind)))]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for %q", kind)
	}
	return factory(target)
}

// typed returns a factory for vendor objects implementing T.
func typed[T any](kind Kind, build func(p T, doc Document) Adapter) Factory {
	return func(target Target) (Adapter, error) {
		p, ok := target.Player.(T)
		if !ok {
			return nil, fmt.Errorf("%s: unsupported player object %T", kind, target.Player)
		}
		return build(p, target.Document), nil
	}
}

func init() {
	Register(KindHTML5, typed(KindHTML5, func(el VideoElement, doc Document) Adapter {
		return NewHTML5(el, doc)
	}))
	Register(KindVideoJS, typed(KindVideoJS, func(p VideoJSPlayer, _ Document) Adapter {
		return NewVideoJS(p)
	}))
	Register(KindJWPlayer, typed(KindJWPlayer, func(p JWPlayerAPI, _ Document) Adapter {
		return NewJWPlayer(p)
	}))
	Register(KindPlyr, typed(KindPlyr, func(p PlyrPlayer, _ Document) Adapter {
		return NewPlyr(p)
	}))
	Register(KindVimeo, typed(KindVimeo, func(p VimeoPlayer, _ Document) Adapter {
		return NewVimeo(p)
	}))
	Register(KindYouTube, typed(KindYouTube, func(p YouTubePlayer, doc Document) Adapter {
		return NewYouTube(p, doc)
	}))
	Register(KindMPV, func(target Target) (Adapter, error) {
		switch p := target.Player.(type) {
		case *MPV:
			return p, nil
		case string:
			return AttachMPV(p), nil
		default:
			return nil, fmt.Errorf("%s: unsupported player object %T", KindMPV, target.Player)
		}
	})
}
