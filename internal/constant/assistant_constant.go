package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Source labels attached to every answer envelope
	AnswerSourceDatabase = "database"
	AnswerSourceRAG      = "rag"
	AnswerSourceGeneral  = "general"

	// Every branch prefixes its answer with a fixed provenance sentence so
	// callers can tell where an answer came from without inspecting fields.
	DatabaseAnswerPrefix = "This answer is based on live HR database records. "
	RAGAnswerPrefix      = "This answer is based on company documents. "
	GeneralAnswerPrefix  = "This is a general reply, not based on company data. "

	// Pagination with no stored query is terminal; the reply is this exact
	// message with no prefix.
	NoPaginationContextMessage = "I don't have any earlier database results to navigate. Please ask a data question first."

	// Friendly fallbacks. Raw SQL errors or model errors never reach users.
	SQLGenerationFailedMessage = "I couldn't turn that question into a safe database query. Could you rephrase it, for example by naming the employee or the record type you're interested in?"
	SQLExecutionFailedMessage  = "I ran into a problem while querying the HR database. Please try again in a moment or rephrase your question."
	NoMatchingRecordsMessage   = "I checked the live HR database and found no matching records for your question."

	// Topic for the in-process event bus (watermill gochannel)
	AnswerRecordedTopic = "ASSISTANT_ANSWER_RECORDED"

	// Module name written to activity_logs by the audit consumer
	ActivityLogModuleAssistant = "Assistant"
)

// Answer formatting instruction. The formatter injects question, SQL and the
// (enriched) rows; these rules keep internal identifiers and invented facts
// out of the reply.
const AnswerFormatterSystemPrompt = `You explain HR database query results in plain language.

Rules:
- Answer the user's question using ONLY the rows provided.
- State plainly that the answer comes from live database records.
- Never show internal identifiers (ids, uuids, foreign keys) unless the user explicitly asked for them. Prefer names and emails resolved in the rows.
- Never invent categories, field values, or totals that are not present in the rows.
- If a value is missing from the rows, say it is not recorded. Do not guess.
- Keep the answer to a few sentences. Use a short list when there are several records.`

// Intent classification instruction for the model tier. The reply must be
// exactly one label; anything else triggers the deterministic fallback.
const IntentClassifierSystemPrompt = `Classify the user's question into exactly one label.

DATABASE_QUERY: asks about live HR records (employees, leaves, attendance, payroll, devices, activity logs) that require a database lookup.
RAG_QUERY: asks about company policies, handbooks, guidelines, or other documents.
GENERAL_CHAT: greetings, small talk, or questions about the assistant itself.

Reply with ONLY one of: DATABASE_QUERY, RAG_QUERY, GENERAL_CHAT. No punctuation, no explanation.`

// RAG answering instruction used when relevant documents were retrieved.
const RAGAnswerSystemPrompt = `You answer questions about company policies using the document excerpts provided.

Rules:
- Use ONLY the excerpts. Do not add outside knowledge.
- Mention the document a fact came from when it helps.
- If the excerpts do not cover the question, say so plainly.
- Keep the answer short and direct.`

// RAG fallback instruction used when retrieval returned nothing relevant.
const RAGNoContextSystemPrompt = `The document search found nothing relevant to the user's question.
Tell the user briefly that the company documents don't appear to cover this, and suggest rephrasing or asking HR directly. Do not invent policy content.`
