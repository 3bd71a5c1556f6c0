package advisor

import "github.com/finsight/advisor-cli/internal/model"

// HydrateFoundationalContext merges account defaults into a session's
// foundational answers. Session answers win and are tagged session_explicit;
// account defaults fill the gaps tagged account. Either input may be nil.
func HydrateFoundationalContext(profile *model.AccountProfile, session *model.FoundationalContext) *model.HydratedFoundationalContext {
	h := &model.HydratedFoundationalContext{}
	for _, spec := range fieldSpecs {
		var hv *model.HydratedValue
		if session != nil {
			if v := spec.fromSession(session); v != nil && *v != "" {
				hv = &model.HydratedValue{Value: *v, Source: model.SourceSessionExplicit}
			}
		}
		if hv == nil && profile != nil {
			if v := spec.fromProfile(profile); v != nil && *v != "" {
				hv = &model.HydratedValue{Value: *v, Source: model.SourceAccount}
			}
		}
		if hv != nil {
			spec.setHydrated(h, hv)
		}
	}
	return h
}

// foundationalFromSession collapses session inputs to a plain snapshot for
// preference resolution: the plain form if present, otherwise the
// session_explicit slice of the hydrated context.
func foundationalFromSession(hydrated *model.HydratedFoundationalContext, plain *model.FoundationalContext) *model.FoundationalContext {
	if plain != nil {
		return plain
	}
	if hydrated == nil {
		return nil
	}
	f := &model.FoundationalContext{}
	for _, spec := range fieldSpecs {
		if hv := spec.fromHydrated(hydrated); hv != nil && hv.Source == model.SourceSessionExplicit && hv.Value != "" {
			v := hv.Value
			spec.setSession(f, &v)
		}
	}
	return f
}
