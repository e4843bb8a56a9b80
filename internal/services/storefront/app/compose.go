// Package app composes storefront modules into the root handler.
package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	module "github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/segments"
)

// segmentCatchAll owns every segment path no module claims.
const segmentCatchAll = routepath.SegmentPattern + "/"

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	Dependencies   module.Dependencies
	PublicModules  []module.Module
	SegmentModules []module.Module
	// NotFound renders unknown routes; defaults to http.NotFoundHandler.
	NotFound http.Handler
}

// Composer wires root mux mounts and segment-group behavior.
type Composer struct{}

// Compose builds the root handler. Public modules mount on the root mux;
// segment modules mount behind the segment resolver, which validates the
// country/language pair before any module sees the request.
func (Composer) Compose(input ComposeInput) (http.Handler, error) {
	resolver := input.Dependencies.Segments
	if resolver == nil {
		return nil, errors.New("segment resolver is required")
	}
	notFound := input.NotFound
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}

	root := http.NewServeMux()
	segmentMux := http.NewServeMux()
	seen := make(map[string]string)

	for _, feature := range input.PublicModules {
		if feature == nil {
			return nil, errors.New("public module is nil")
		}
		if err := mountPublicModule(root, feature, input.Dependencies, seen); err != nil {
			return nil, err
		}
	}
	for _, feature := range input.SegmentModules {
		if feature == nil {
			return nil, errors.New("segment module is nil")
		}
		if err := mountSegmentModule(segmentMux, feature, input.Dependencies, seen); err != nil {
			return nil, err
		}
	}
	if _, ok := seen[segmentCatchAll]; !ok {
		segmentMux.Handle(segmentCatchAll, notFound)
	}

	guarded := requireSessionSameOrigin(input.Dependencies.SchemePolicy)(segmentMux)
	root.Handle(routepath.Root, segments.Require(resolver, notFound)(guarded))
	return root, nil
}

func mountModule(mux *http.ServeMux, feature module.Module, mount module.Mount, seen map[string]string) error {
	for _, prefix := range mount.Prefixes {
		if previous, ok := seen[prefix]; ok {
			return fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), prefix, previous)
		}
		seen[prefix] = feature.ID()
	}
	for _, prefix := range mount.Prefixes {
		mux.Handle(prefix, mount.Handler)
	}
	return nil
}

func mountPublicModule(root *http.ServeMux, feature module.Module, deps module.Dependencies, seen map[string]string) error {
	mount, err := resolveMount(feature, deps)
	if err != nil {
		return err
	}
	for _, prefix := range mount.Prefixes {
		if isSegmentPrefix(prefix) {
			return fmt.Errorf("module %q has segment prefix %q in public group", feature.ID(), prefix)
		}
		if prefix == routepath.Root {
			return fmt.Errorf("module %q cannot claim the root catch-all", feature.ID())
		}
	}
	return mountModule(root, feature, mount, seen)
}

func mountSegmentModule(segmentMux *http.ServeMux, feature module.Module, deps module.Dependencies, seen map[string]string) error {
	mount, err := resolveMount(feature, deps)
	if err != nil {
		return err
	}
	for _, prefix := range mount.Prefixes {
		if !isSegmentPrefix(prefix) {
			return fmt.Errorf("module %q must mount under %s, got %q", feature.ID(), routepath.SegmentPattern, prefix)
		}
	}
	return mountModule(segmentMux, feature, mount, seen)
}

func isSegmentPrefix(prefix string) bool {
	return strings.HasPrefix(prefix, routepath.SegmentPattern)
}

func resolveMount(feature module.Module, deps module.Dependencies) (module.Mount, error) {
	mount, err := feature.Mount(deps)
	if err != nil {
		return module.Mount{}, fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if len(mount.Prefixes) == 0 {
		return module.Mount{}, fmt.Errorf("mount module %q: prefix is required", feature.ID())
	}
	for i, prefix := range mount.Prefixes {
		prefix = strings.TrimSpace(prefix)
		if !strings.HasPrefix(prefix, "/") {
			return module.Mount{}, fmt.Errorf("mount module %q: prefix %q must start with /", feature.ID(), prefix)
		}
		mount.Prefixes[i] = prefix
	}
	if mount.Handler == nil {
		return module.Mount{}, fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	return mount, nil
}

func requireSessionSameOrigin(policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || (!hasSessionCookie(r) && !isLoginRequest(r)) {
				next.ServeHTTP(w, r)
				return
			}
			if !requestmeta.HasSameOriginProof(r, policy) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// isLoginRequest reports whether r targets /{country}/{lang}/account/login,
// which establishes a session and so needs the same proof as cookie requests.
func isLoginRequest(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	return len(parts) == 4 && parts[2] == routepath.AccountSegment && parts[3] == routepath.LoginSegment
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
