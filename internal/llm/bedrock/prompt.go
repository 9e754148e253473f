package bedrock

// The assistant role and the instruction text are invocation constants: the
// parser depends on the table shape they mandate, so they are not
// configurable per call.

const systemPrompt = "You are an AWS Well-Architected Framework expert system. " +
	"Analyze architecture diagrams thoroughly and provide detailed assessments " +
	"with specific, actionable recommendations."

const analysisPrompt = `Please analyze this AWS architecture diagram and provide a detailed assessment following the AWS Well-Architected Framework's six pillars.

For each pillar (Operational Excellence, Security, Reliability, Performance Efficiency, Cost Optimization, and Sustainability), provide:
1. Identified strengths in the architecture
2. Potential risks or gaps
3. Risk level (High/Medium/Low)
4. Specific recommendations for improvement

Format your response exactly as follows for each pillar:
| Pillar | Strengths | Risks | Risk Level | Recommendations |
Include concrete details and specific AWS services in your analysis.`
