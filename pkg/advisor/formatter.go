package advisor

const outputRule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

type outputTemplate struct {
	banner  string
	trailer string
}

var outputTemplates = map[TaskCategory]outputTemplate{
	TaskPitchDeck: {
		banner: "🎯 INVESTOR PITCH DECK TEMPLATE",
		trailer: "💡 Pro Tip: Add actual metrics, customer testimonials, and team bios.\n" +
			"📊 Design: Use Canva/Pitch.com for professional design.\n" +
			"⏱️ Timing: Practice to deliver in 10 minutes.",
	},
	TaskFinancialModel: {
		banner: "💰 FINANCIAL MODEL SUMMARY",
		trailer: "📈 Next Steps:\n" +
			"1. Input these numbers into an Excel/Google Sheets template\n" +
			"2. Create monthly cash flow projections\n" +
			"3. Calculate break-even point\n" +
			"4. Prepare for investor due diligence",
	},
	TaskBusinessPlan: {
		banner: "📋 BUSINESS PLAN OUTLINE",
		trailer: "✅ Checklist:\n" +
			"□ Executive Summary (1 page)\n" +
			"□ Company Description (2 pages)\n" +
			"□ Market Analysis (3-5 pages)\n" +
			"□ Organization Structure (1-2 pages)\n" +
			"□ Product/Service Details (2-3 pages)\n" +
			"□ Marketing Strategy (2-3 pages)\n" +
			"□ Financial Projections (3-5 pages)\n" +
			"□ Appendix (as needed)",
	},
	TaskBusinessStrategy: {
		banner: "🎯 BUSINESS STRATEGY DOCUMENT",
		trailer: "🚀 Implementation Priority:\n" +
			"1. Execute 90-Day Action Plan immediately\n" +
			"2. Schedule weekly strategy review meetings\n" +
			"3. Track KPIs mentioned above\n" +
			"4. Revisit strategy quarterly",
	},
	TaskMarketAnalysis: {
		banner: "📊 MARKET ANALYSIS REPORT",
		trailer: "🔍 Research Next Steps:\n" +
			"1. Validate assumptions with customer interviews\n" +
			"2. Monitor competitor pricing changes monthly\n" +
			"3. Subscribe to industry newsletters\n" +
			"4. Attend relevant conferences/meetups",
	},
}

// HasOutputTemplate reports whether FormatOutput wraps output of task.
func HasOutputTemplate(task TaskCategory) bool {
	_, ok := outputTemplates[task]
	return ok
}

// FormatOutput wraps raw model output in the business template of task.
// Categories without a template are returned unchanged.
func FormatOutput(task TaskCategory, raw string) string {
	tmpl, ok := outputTemplates[task]
	if !ok {
		return raw
	}

	return "\n" + tmpl.banner + "\n" +
		outputRule + "\n\n" +
		raw + "\n\n" +
		outputRule + "\n" +
		tmpl.trailer + "\n"
}
