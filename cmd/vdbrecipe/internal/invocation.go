package internal

import (
	"fmt"

	"github.com/goplus/openvdb-recipe/internal/profile"
	"github.com/goplus/openvdb-recipe/recipe"
)

// invocation is the platform and option request assembled from the
// profile and command line overrides.
type invocation struct {
	profile  *profile.Profile
	platform recipe.Platform
	request  recipe.Request
}

func loadInvocation() (*invocation, error) {
	var (
		prof *profile.Profile
		err  error
	)
	if profilePath != "" {
		prof, err = profile.Load(profilePath)
		if err != nil {
			return nil, err
		}
	} else {
		prof = profile.Detect()
		log.WithField("settings", prof.Settings).Debug("using detected host profile")
	}

	if err := prof.ApplySettings(settingPairs); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	req, err := prof.Request(optionPairs)
	if err != nil {
		return nil, err
	}
	return &invocation{profile: prof, platform: prof.Settings, request: req}, nil
}

func (inv *invocation) newRecipe(l recipe.Layout, opts ...recipe.Option) *recipe.Recipe {
	opts = append([]recipe.Option{
		recipe.WithLogger(log),
		recipe.WithDependencyRoots(inv.profile.Dependencies),
	}, opts...)
	return recipe.New(inv.platform, inv.request, l, opts...)
}
