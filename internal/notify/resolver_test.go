package notify_test

import (
	"testing"

	"github.com/fixline/complaint-api/internal/notify"
	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	resolver := notify.NewResolver(notify.DefaultCatalog())

	t.Run("renders a structured message through the catalog", func(t *testing.T) {
		raw := notify.Encode(notify.KeyClosedUser, map[string]string{
			notify.ParamReportNumber: "CMP-2026-007",
		})

		text := resolver.Resolve(raw)
		assert.Equal(t, "Your complaint CMP-2026-007 has been resolved and is ready for pickup", text)
	})

	t.Run("returns legacy text verbatim", func(t *testing.T) {
		text := resolver.Resolve("Complaint handled, see shop notes")
		assert.Equal(t, "Complaint handled, see shop notes", text)
	})

	t.Run("falls back to the raw message on a catalog miss", func(t *testing.T) {
		raw := notify.Encode("some_retired_key", map[string]string{"x": "1"})
		assert.Equal(t, raw, resolver.Resolve(raw))
	})
}

func TestResolver_SuffixFallback(t *testing.T) {
	catalog := notify.StaticCatalog{
		"assignment_body": "Complaint {report_number} was assigned",
		"pickup_title":    "Ready for pickup",
	}
	resolver := notify.NewResolver(catalog)

	t.Run("title key falls back to body variant", func(t *testing.T) {
		raw := notify.Encode("assignment_title", map[string]string{
			"report_number": "CMP-2026-010",
		})
		assert.Equal(t, "Complaint CMP-2026-010 was assigned", resolver.Resolve(raw))
	})

	t.Run("body key falls back to title variant", func(t *testing.T) {
		raw := notify.Encode("pickup_body", nil)
		assert.Equal(t, "Ready for pickup", resolver.Resolve(raw))
	})

	t.Run("keys without a known suffix do not fall back", func(t *testing.T) {
		raw := notify.Encode("assignment", nil)
		assert.Equal(t, raw, resolver.Resolve(raw))
	})
}

func TestInterpolate(t *testing.T) {
	t.Run("substitutes all placeholders", func(t *testing.T) {
		out := notify.Interpolate("Complaint {rn} closed by {tech}", map[string]string{
			"rn":   "CMP-2026-001",
			"tech": "Ravi",
		})
		assert.Equal(t, "Complaint CMP-2026-001 closed by Ravi", out)
	})

	t.Run("leaves unknown placeholders in place", func(t *testing.T) {
		out := notify.Interpolate("Complaint {rn} closed by {tech}", map[string]string{
			"rn": "CMP-2026-001",
		})
		assert.Equal(t, "Complaint CMP-2026-001 closed by {tech}", out)
	})

	t.Run("returns the template unchanged without params", func(t *testing.T) {
		assert.Equal(t, "No params here", notify.Interpolate("No params here", nil))
	})
}

func TestDefaultCatalog(t *testing.T) {
	catalog := notify.DefaultCatalog()

	// Every wire key used by the dispatcher must resolve
	keys := []string{
		notify.KeyNewComplaint,
		notify.KeyUserComplaintOpened,
		notify.KeyProcessingTech,
		notify.KeyProcessingUser,
		notify.KeyForwardStatusUser,
		notify.KeyInProcessAdmin,
		notify.KeyClosedAdmin,
		notify.KeyInProcessUser,
		notify.KeyClosedUser,
		notify.KeyStatusAdmin,
		notify.KeyStatusUser,
		notify.KeyTransportAdmin,
		notify.KeyTransportUser,
		notify.KeyCheckingAdmin,
		notify.KeyCheckingUser,
		notify.KeyRemarkAdmin,
		notify.KeyRemarkUser,
		notify.KeyRemarkTech,
		notify.KeyCancelledUser,
		notify.KeyCancelledAdmin,
		notify.KeyPendingReminder,
	}
	for _, key := range keys {
		_, ok := catalog.Lookup(key)
		assert.True(t, ok, "catalog is missing template for %s", key)
	}
}
