package service

import (
	"testing"

	"leadconvert/internal/analytics/repository"

	"github.com/google/uuid"
)

func TestToConversions_ComputesRate(t *testing.T) {
	c := toConversions(repository.ConversionMetrics{
		TotalLeads:     40,
		ConvertedLeads: 10,
		LostLeads:      4,
	})

	if c.ConversionRate != 25 {
		t.Fatalf("expected conversion rate 25, got %v", c.ConversionRate)
	}
	if c.TotalLeads != 40 || c.ConvertedLeads != 10 || c.LostLeads != 4 {
		t.Fatalf("unexpected totals: %+v", c)
	}
}

func TestToConversions_ZeroLeadsMeansZeroRate(t *testing.T) {
	c := toConversions(repository.ConversionMetrics{})
	if c.ConversionRate != 0 {
		t.Fatalf("expected zero rate for empty funnel, got %v", c.ConversionRate)
	}
}

func TestScopeForRole(t *testing.T) {
	requester := uuid.New()

	admin := scopeForRole(requester, "admin")
	if admin.UserID != nil || admin.ExcludeAdmins {
		t.Fatalf("admin scope should be unrestricted, got %+v", admin)
	}

	manager := scopeForRole(requester, "manager")
	if manager.UserID != nil || !manager.ExcludeAdmins {
		t.Fatalf("manager scope should exclude admins only, got %+v", manager)
	}

	agent := scopeForRole(requester, "agent")
	if agent.UserID == nil || *agent.UserID != requester {
		t.Fatalf("agent scope should be limited to the requester, got %+v", agent)
	}
}
