package research

// reflectionTemplate asks the model to analyze findings and embed the
// continuation marker in its free-text answer. Expects question, findings.
const reflectionTemplate = `You are analyzing the current research findings to organize information and determine if more research is needed.

Question: %s

Current Findings:
%s

Please analyze the findings and determine:
1. What are the key themes and insights from the research so far?
2. Are there any gaps in the current findings?
3. Are there conflicting viewpoints that need resolution?
4. What additional sources or perspectives would strengthen the research?

Format your response naturally but include somewhere in your text the following marker:
FURTHER_RESEARCH_NEEDED: <Yes/No>
`

// summaryTemplate produces the final narrative answer. Expects question,
// findings.
const summaryTemplate = `You are creating a comprehensive analysis of the research findings on %s.

Research Findings:
%s

Please provide a scholarly analysis that:
1. Synthesizes the key findings and themes
2. Evaluates the quality and reliability of sources
3. Identifies areas of consensus and disagreement
4. Discusses methodological strengths and limitations
5. Suggests directions for future research

Remember to:
- Use precise academic language
- Properly cite sources
- Maintain a scholarly tone
- Define technical terms
- Indicate levels of certainty in claims

Structure your response in a clear, logical manner with appropriate headings and sections.`

// answerTemplate is the single-shot RAG answer prompt. Expects question,
// context.
const answerTemplate = `You are a helpful research assistant that provides accurate, informative answers based on the retrieved context.

Your task is to:
1. Synthesize information from the provided context
2. Structure your response with clear sections and headings if needed
3. Focus on addressing the specific question asked
4. Acknowledge limitations if the context does not provide sufficient information

Always maintain academic integrity in your responses.

User Question: %s

Context: %s

Please provide a comprehensive response following the guidelines above.`
