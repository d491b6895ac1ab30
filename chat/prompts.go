package chat

import "fmt"

// NoRelevantLogsAnswer is returned when grading eliminates every retrieved
// candidate. Synthesis is skipped entirely in that case.
const NoRelevantLogsAnswer = "I found some logs, but after double-checking, none of them seemed directly relevant to your specific question."

// noResponsePlaceholder stands in for a successful generation call that
// carried no content.
const noResponsePlaceholder = "No response content."

const gradePromptTemplate = `You are a log relevance checker. Determine if this log entry could help answer the question.

Question: %s
Log Entry: %s

Consider the log relevant if:
- It directly answers the question
- It provides related context (e.g., warnings before errors, related system events)
- It mentions the same components or timeframes

Answer ONLY with 'YES' or 'NO'.`

const synthesisPromptTemplate = `You are a senior system reliability engineer analyzing logs.
Your goal is to explain EXACTLY what happened based on the provided log sequence.

Guidelines:
1. Look at the TIMESTAMP order. What happened first? What happened next?
2. Do NOT assume the application crashed unless you see a "CRITICAL" or "Shutting down" log.
3. If you see an ERROR followed by an INFO (e.g. "Retrying"), mention that the system attempted recovery.
4. Synthesize a short narrative: "First X happened, then Y happened."

Log Sequence:
%s

User Question: %s

Analysis:`

func buildGradePrompt(query, logEntry string) string {
	return fmt.Sprintf(gradePromptTemplate, query, logEntry)
}

func buildSynthesisPrompt(contextStr, query string) string {
	return fmt.Sprintf(synthesisPromptTemplate, contextStr, query)
}
