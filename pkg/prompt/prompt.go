// Package prompt builds the car-assistant system prompt and the canned
// fallback responses used when the model provider is unavailable. All
// functions are pure lookups over fixed tables.
package prompt

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/pitcrew/pkg/model"
)

const basePrompt = `You are an expert AI car assistant specializing in automotive maintenance, performance optimization, and driving advice. You have extensive knowledge about:

- Car maintenance schedules and procedures
- Performance optimization techniques
- Fuel efficiency tips
- Engine diagnostics and troubleshooting
- Tire care and safety
- Seasonal car care
- Emergency roadside assistance
- Car features and technology

Current driving context: %s

Guidelines:
- Always provide practical, safe, and actionable advice
- Consider the current driving status when giving recommendations
- Prioritize safety above all else
- Be specific about maintenance intervals and procedures
- Explain technical concepts in accessible language
- Ask clarifying questions when needed (car make/model, year, etc.)

For performance optimization:
- If parked: Focus on maintenance planning, pre-drive checks, and long-term optimization
- If city driving: Emphasize fuel efficiency, stop-and-go techniques, and urban driving tips
- If highway driving: Focus on cruise control, aerodynamics, and highway efficiency
- If in traffic: Provide stress reduction tips, engine care during idling, and safety advice

Always be helpful, knowledgeable, and safety-conscious.`

var drivingSpecific = map[model.DrivingStatus]string{
	model.StatusParked:      "The user is currently parked. Focus on maintenance planning, pre-drive checks, and preparation advice.",
	model.StatusCityDriving: "The user is city driving. Provide real-time advice for stop-and-go traffic, fuel efficiency in urban environments, and city-specific tips.",
	model.StatusHighway:     "The user is on the highway. Focus on cruise control optimization, highway fuel efficiency, and long-distance driving tips.",
	model.StatusTraffic:     "The user is stuck in traffic. Provide advice for engine care during idling, stress reduction, and traffic-specific safety tips.",
}

// System returns the full system prompt for the given driving status.
// Unknown statuses get the parked guidance clause.
func System(status model.DrivingStatus) string {
	clause, ok := drivingSpecific[status]
	if !ok {
		clause = drivingSpecific[model.StatusParked]
	}
	return fmt.Sprintf(basePrompt, status) + "\n\n" + clause
}

var statusTips = map[model.DrivingStatus]string{
	model.StatusParked:      "Perfect time for maintenance checks and planning your next service!",
	model.StatusCityDriving: "Use gentle acceleration/braking to improve fuel economy in stop-and-go traffic.",
	model.StatusHighway:     "Maintain steady speeds and use cruise control for optimal fuel efficiency.",
	model.StatusTraffic:     "Turn off A/C if overheating in traffic, and avoid excessive idling to save fuel.",
}

const defaultTip = "Safe driving is the best performance optimization!"

// StatusTip returns the one-line driving tip for the status. Unlike the
// system prompt, unknown statuses resolve to a distinct generic tip
// rather than the parked entry.
func StatusTip(status model.DrivingStatus) string {
	if tip, ok := statusTips[status]; ok {
		return tip
	}
	return defaultTip
}

var (
	coldWeatherKeywords = []string{"cold", "winter", "morning", "start"}
	maintenanceKeywords = []string{"maintenance", "service", "check", "schedule"}
	performanceKeywords = []string{"performance", "optimize", "fuel", "efficiency", "mpg"}
)

func containsAny(message string, keywords []string) bool {
	for _, w := range keywords {
		if strings.Contains(message, w) {
			return true
		}
	}
	return false
}

// Fallback returns a canned advisory response when the model provider
// is unavailable. The category is picked by case-insensitive keyword
// match against the user message, first match wins: cold weather,
// maintenance, performance, then a general default.
func Fallback(message string, status model.DrivingStatus) string {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, coldWeatherKeywords):
		return fmt.Sprintf(coldWeatherTemplate, status, status.Display(), StatusTip(status))
	case containsAny(lower, maintenanceKeywords):
		return fmt.Sprintf(maintenanceTemplate, status.Display(), StatusTip(status))
	case containsAny(lower, performanceKeywords):
		return fmt.Sprintf(performanceTemplate, status.Display(), StatusTip(status))
	default:
		return fmt.Sprintf(generalTemplate, status.Display(), StatusTip(status))
	}
}

const coldWeatherTemplate = `For cold weather starting (Current status: %s):

🔧 **Pre-Start Checks:**
• Check tire pressure (cold weather reduces pressure)
• Ensure battery connections are clean and tight
• Verify coolant levels aren't frozen
• Check oil viscosity (use winter-grade oil if needed)

⚡ **Starting Tips:**
• Turn off all accessories before starting
• Let the engine warm up for 30-60 seconds before driving
• Don't rev the engine while cold
• Check that lights and defrosters work properly

💡 **Performance Tip for %s:**
%s

*Note: AI service temporarily unavailable - using expert-curated responses*`

const maintenanceTemplate = `**Regular Maintenance Schedule:**

🔧 **Every Month:**
• Check tire pressure and tread depth
• Inspect lights, wipers, and fluid levels
• Test battery connections

🛠️ **Every 3,000-5,000 miles:**
• Oil and filter change
• Check belts and hoses
• Inspect brake pads

📅 **Every 6 months:**
• Rotate tires
• Check alignment
• Replace air filter

**Current Status Consideration (%s):**
%s

*Note: AI service temporarily unavailable - using expert-curated responses*`

const performanceTemplate = `**Performance Optimization Tips:**

⚡ **Fuel Efficiency:**
• Maintain steady speeds (use cruise control on highway)
• Keep tires properly inflated
• Remove excess weight from vehicle
• Regular engine tune-ups

🏎️ **Engine Performance:**
• Use recommended octane fuel
• Replace air filter regularly
• Keep fuel injectors clean
• Monitor engine oil quality

**For %s Status:**
%s

*Note: AI service temporarily unavailable - using expert-curated responses*`

const generalTemplate = `**General Car Care Advice:**

🚗 **Daily Checks:**
• Monitor dashboard warning lights
• Check that all lights function properly
• Ensure adequate fuel levels
• Listen for unusual noises

🔧 **Weekly Checks:**
• Tire pressure and visual inspection
• Fluid levels (oil, coolant, washer fluid)
• Battery terminals for corrosion

**Context for %s:**
%s

For specific questions about your vehicle, consult your owner's manual or a certified mechanic.

*Note: AI service temporarily unavailable - using expert-curated responses*`
