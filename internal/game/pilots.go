package game

import (
	"context"
	"strings"

	"airline_sim/internal/models"
)

const (
	minSkill = 1
	maxSkill = 5

	baseSalary     = 5_000
	salaryPerSkill = 2_000
)

type HireRequest struct {
	Name       string `json:"name"`
	SkillLevel int    `json:"skill_level"`
	// Salary defaults to a skill-based figure when nil.
	Salary *int `json:"salary,omitempty"`
}

func (e *Engine) Pilots(ctx context.Context) ([]models.Pilot, error) {
	var out []models.Pilot
	err := e.view(ctx, func(st *models.CompanyState) error {
		out = st.Pilots
		return nil
	})
	return out, err
}

func (e *Engine) HirePilot(ctx context.Context, req HireRequest) (*models.Pilot, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("pilot name required")
	}
	if req.SkillLevel == 0 {
		req.SkillLevel = minSkill
	}
	if req.SkillLevel < minSkill || req.SkillLevel > maxSkill {
		return nil, invalid("skill level must be between %d and %d", minSkill, maxSkill)
	}
	salary := baseSalary + req.SkillLevel*salaryPerSkill
	if req.Salary != nil {
		if *req.Salary < 0 {
			return nil, invalid("salary must not be negative")
		}
		salary = *req.Salary
	}

	p := models.Pilot{
		PilotID:    e.newID("pilot"),
		Name:       name,
		SkillLevel: req.SkillLevel,
		Salary:     salary,
	}
	err := e.update(ctx, "hire_pilot", func(st *models.CompanyState) error {
		p.HiredDay = e.Today()
		st.Pilots = append(st.Pilots, p)
		awardAchievements(st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AssignPilot puts a pilot on an aircraft; an empty aircraftID unassigns.
// Any pilot already flying the aircraft is unassigned.
func (e *Engine) AssignPilot(ctx context.Context, pilotID, aircraftID string) error {
	return e.update(ctx, "assign_pilot", func(st *models.CompanyState) error {
		_, p := st.FindPilot(pilotID)
		if p == nil {
			return notFound("pilot %s not found", pilotID)
		}
		if aircraftID == "" {
			p.AssignedAircraftID = ""
			return nil
		}
		if _, err := findAircraft(st, aircraftID); err != nil {
			return err
		}
		if cur := st.PilotFor(aircraftID); cur != nil && cur.PilotID != pilotID {
			cur.AssignedAircraftID = ""
		}
		p.AssignedAircraftID = aircraftID
		return nil
	})
}

func (e *Engine) FirePilot(ctx context.Context, pilotID string) error {
	return e.update(ctx, "fire_pilot", func(st *models.CompanyState) error {
		idx, p := st.FindPilot(pilotID)
		if p == nil {
			return notFound("pilot %s not found", pilotID)
		}
		st.Pilots = append(st.Pilots[:idx], st.Pilots[idx+1:]...)
		return nil
	})
}
