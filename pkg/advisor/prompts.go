package advisor

import "fmt"

// Each template takes the user input exactly once through a single %s verb.
var promptTemplates = [taskCategoryCount]string{
	TaskBusinessStrategy: `As a senior business consultant, analyze this business scenario:

%s

Provide a comprehensive business strategy including:
1. SWOT Analysis (Strengths, Weaknesses, Opportunities, Threats)
2. Competitive Advantage (Unique value proposition)
3. Go-to-Market Strategy (How to reach customers)
4. Revenue Model (How to make money)
5. Risk Assessment(Key risks and mitigations)
6. 90-Day Action Plan (Immediate next steps)

Format with clear sections and actionable insights.`,

	TaskPitchDeck: `Create an investor-ready pitch deck for:

%s

Structure it as a 10-slide pitch deck:
1. Title Slide - Company name & tagline
2. Problem - What pain point are you solving?
3. Solution - Your product/service
4. Market Size - TAM, SAM, SOM with data
5. Business Model - How you make money
6. Traction - Current progress & milestones
7. Competition - Competitive landscape
8. Team - Key team members & advisors
9. Financials - 3-year projections
10. The Ask - Funding needed & use of funds

Make it data-driven and compelling for investors.`,

	TaskMarketAnalysis: `Conduct a professional market analysis for:

%s

Include:
• Target Market Segmentation (B2B/B2C, demographics, psychographics)
• Competitor Analysis (Direct & indirect competitors with SWOT for each)
• Market Trends (Current & future trends affecting this space)
• Barriers to Entry (What makes this market difficult to enter)
• Growth Potential (Market growth rate & projections)
• Customer Acquisition Costs (Estimated CAC for this market)

Use real data references where possible.`,

	TaskFinancialModel: `Create financial projections for:

%s

Provide:
1. Revenue Projections (3 years, monthly for year 1)
2. Cost Structure(Fixed vs variable costs)
3. Profit & Loss Statement (Projected P&L)
4. Cash Flow Forecast(Monthly cash flow)
5. Key Metrics (CAC, LTV, MRR/ARR if applicable)
6. Break-even Analysis (When the business becomes profitable)
7. Funding Requirements (How much capital needed)

Use realistic assumptions and explain each calculation.`,

	TaskBusinessPlan: `Develop a comprehensive business plan for:

%s

Structure:
Executive Summary (1-page overview)
Company Description (Mission, vision, legal structure)
Market Analysis (Industry, target market, competition)
Organization & Management (Team structure, roles)
Product/Service Line (What you're selling)
Marketing & Sales Strategy (How you'll acquire customers)
Funding Request (If seeking investment)
Financial Projections (3-5 year projections)
Appendix (Supporting documents)

Make it investor-ready and thorough.`,

	TaskIdea: `Generate innovative, FUNDABLE business ideas for:

%s

For each idea, provide:
• Problem Statement (What problem does it solve?)
• Solution Overview (How it works)
• Target Market (Who will pay for this?)
• Revenue Model (How to monetize)
• Competitive Advantage (Why this beats existing solutions)
• Initial MVP (Minimum viable product to test)
• Required Team (Key roles needed)
• Potential Challenges (Risks to consider)

Focus on ideas with real business potential.`,

	TaskGuide: `Act as a Y Combinator-style mentor providing actionable guidance for:

%s

Provide step-by-step mentorship:
1. Immediate Next Steps (What to do in next 7 days)
2. Key Milestones (Quarterly goals for next year)
3. Common Pitfalls (What to avoid in this space)
4. Resource Recommendations (Books, tools, networks)
5. Skill Development (What skills to build)
6. Networking Strategy (Who to connect with)
7. Success Metrics (How to measure progress)

Be specific and actionable, not generic advice.`,

	TaskCode: "You are a CTO/tech lead at a startup. Write production-ready, scalable code.\n\n" +
		"Business Requirement: %s\n\n" +
		"Provide:\n" +
		"1. Complete Implementation (Clean, commented, tested code)\n" +
		"2. Architecture Explanation (Why this approach?)\n" +
		"3. Scalability Considerations (How it handles growth)\n" +
		"4. Cost Optimization (Cloud costs, efficiency)\n" +
		"5. Security Best Practices (Vulnerabilities to avoid)\n" +
		"6. Deployment Instructions (How to deploy)\n" +
		"7. Maintenance Plan (Ongoing maintenance needs)\n\n" +
		"Write as if this code will be reviewed by senior engineers.",

	TaskPPT: "Create an INVESTOR-READY PowerPoint presentation with these strict guidelines:\n" +
		"RULES:\n" +
		"- Each slide MUST have a clear title\n" +
		"- Use bullet points ONLY (no paragraphs)\n" +
		"- Include data points & metrics where possible\n" +
		"- Add speaker notes for each slide\n" +
		"- Follow this exact structure:\n\n" +
		"Slide 1: Title & Executive Summary\n" +
		"Slide 2: The Problem (Quantify the pain)\n" +
		"Slide 3: Our Solution (How we solve it)\n" +
		"Slide 4: Market Opportunity (TAM/SAM/SOM)\n" +
		"Slide 5: Business Model (Revenue streams)\n" +
		"Slide 6: Traction & Milestones\n" +
		"Slide 7: Competitive Landscape\n" +
		"Slide 8: The Team (Why us?)\n" +
		"Slide 9: Financial Projections\n" +
		"Slide 10: The Ask & Use of Funds\n\n" +
		"Topic: %s",

	TaskFlowchart: "Design a SYSTEM ARCHITECTURE diagram for a scalable business solution:\n\n" +
		"System Requirements: %s\n\n" +
		"Provide:\n" +
		"1. High-Level Architecture (Components & interactions)\n" +
		"2. Data Flow Diagram (How data moves through system)\n" +
		"3. Technology Stack (Specific technologies recommended)\n" +
		"4. Scalability Design (How it scales with users/traffic)\n" +
		"5. Security Layer (Security measures at each level)\n" +
		"6. Cost-Effective Design (Optimizing for business budgets)\n" +
		"7. Deployment Architecture (Cloud/on-prem/hybrid)\n\n" +
		"Use clear notation: [Component] → (Process) → {Database}",

	TaskPlatform: "Recommend DEPLOYMENT PLATFORMS for a BUSINESS APPLICATION:\n\n" +
		"Application Details: %s\n\n" +
		"For EACH platform recommendation, provide:\n" +
		"• Platform Name (AWS/GCP/Azure/Vercel/etc.)\n" +
		"• Pricing Tier (Free/Startup/Enterprise costs)\n" +
		"• Setup Complexity (Easy/Medium/Hard)\n" +
		"• Best For (What use cases it's ideal for)\n" +
		"• Scalability (How well it scales)\n" +
		"• Limitations (What to watch out for)\n" +
		"• Migration Path (How to move from free to paid)\n\n" +
		"Prioritize platforms with good free tiers for startups.",

	TaskAssistant: "You are I2P Business AI, an expert business consultant and technical advisor. " +
		"Provide comprehensive, actionable business advice.\n\n" +
		"User Query: %s\n\n" +
		"Structure your response with:\n" +
		"• Key Insights (Main takeaways)\n" +
		"• Actionable Recommendations (Specific things to do)\n" +
		"• Potential Risks (What to watch out for)\n" +
		"• Next Steps (Immediate follow-up actions)\n" +
		"• Resource Links (Tools, templates, further reading)",
}

// BuildPrompt renders the instruction scaffold for task around userInput.
// The input is inserted verbatim. An unknown task yields userInput as is.
func BuildPrompt(task TaskCategory, userInput string) string {
	if !task.Valid() {
		return userInput
	}
	return fmt.Sprintf(promptTemplates[task], userInput)
}

// BuildContinuationPrompt asks the model to resume lastOutput of the task
// that was started with lastPrompt.
func BuildContinuationPrompt(lastPrompt, lastOutput string) string {
	return "Original Business Task: " + lastPrompt + "\n\n" +
		"Text generated so far: " + lastOutput + "\n\n" +
		"CRITICAL FOR BUSINESS: Continue EXACTLY from where this stopped. " +
		"Do NOT repeat. Add more actionable details, data points, or implementation steps."
}
