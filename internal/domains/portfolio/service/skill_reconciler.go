package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio-backend/internal/domains/portfolio/model"
	skillmodel "portfolio-backend/internal/domains/skill/model"
)

// skillReconciler rebuilds a portfolio's skill set from a list of names.
// The old set is always dropped and recreated, no diffing, so the resulting
// associations exactly mirror the (deduplicated, resolved) input.
type skillReconciler struct {
	catalog SkillCatalog
}

func newSkillReconciler(catalog SkillCatalog) *skillReconciler {
	return &skillReconciler{catalog: catalog}
}

// Reconcile replaces p.Skills. A nil name list fails with ErrMissingSkills
// (distinct from empty, which is valid and clears the set); an unresolvable
// name fails with ErrUnknownSkill. Names are uppercased before lookup and
// duplicates collapse.
func (r *skillReconciler) Reconcile(ctx context.Context, p *model.Portfolio, skillNames []string) error {
	p.Skills = nil

	if skillNames == nil {
		return model.NewMissingSkillsError()
	}

	for _, name := range skillNames {
		canonical := strings.ToUpper(name)

		skill, err := r.catalog.FindByName(ctx, canonical)
		if err != nil {
			if errors.Is(err, skillmodel.ErrSkillNotFound) {
				return model.NewUnknownSkillError(canonical)
			}
			return fmt.Errorf("failed to resolve skill %s: %w", canonical, err)
		}

		if p.HasSkill(skill.ID) {
			continue
		}
		p.Skills = append(p.Skills, model.SkillLink{SkillID: skill.ID, Name: skill.Name})
	}

	return nil
}
