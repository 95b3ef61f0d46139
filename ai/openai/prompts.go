package openai

import "fmt"

const multiPagePromptTemplate = `You are an expert Invoice Parsing AI. You are processing one page of a multi-page invoice.

### PREVIOUS PAGE CONTEXT (The State of the Document)
The previous page left the document in this state:
` + "```json\n%s\n```" + `

### INSTRUCTIONS
1. **Analyze Layout & Continuity:**
   - Check the JSON previous state above.
   - If "table_status" was 'table_open_headless' and this page starts with numbers/text but NO headers, you MUST map them to the "active_columns" list.
   - If this page starts a *new* table, extract the new column headers.

2. **Extract Global Metadata:**
   - Scan for Invoice Number, Date, or Vendor Name on this page. If found, extract them into "invoice_context".

3. **Extract Line Items:**
   - Extract every row found on this page into "line_items".
   - Normalize "quantity_value", "unit_price", and "line_total_amount" to numbers.

4. **Set Next Page State (Crucial):**
   - Look at the *bottom* of this page. Does the table cut off?
   - If the table continues, set "table_status" to 'table_open_headless'.
   - If the table finishes, set "table_status" to 'no_table'.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace { and
end with the closing brace }. Your output must exactly follow this schema:

%s

### INPUT TEXT (Current Page)
%s`

const singlePagePromptTemplate = `You are an expert Invoice Parsing AI. You are processing a **Single Page Invoice**.

### INSTRUCTIONS
1. **Extract Global Metadata:**
   - Find Invoice Number, Date, Vendor Name, and Totals.

2. **Extract Line Items:**
   - Identify the main data table.
   - Extract every row into "line_items".
   - Ignore headers or footers when creating item rows.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace { and
end with the closing brace }. Your output must exactly follow this schema:

%s

### INPUT TEXT
%s`

const lineItemSchemaFragment = `{
        "type": "object",
        "properties": {
          "item_code": {"type": ["string", "null"]},
          "description": {"type": "string"},
          "delivery_date": {"type": ["string", "null"]},
          "quantity_value": {"type": ["number", "null"]},
          "quantity_unit": {"type": ["string", "null"]},
          "unit_price": {"type": ["number", "null"]},
          "line_total_amount": {"type": ["number", "null"]},
          "section": {"type": ["string", "null"]}
        },
        "required": ["description"]
      }`

const invoiceContextSchemaFragment = `{
      "type": ["object", "null"],
      "properties": {
        "invoice_number": {"type": ["string", "null"]},
        "invoice_date": {"type": ["string", "null"], "description": "ISO 8601 date (YYYY-MM-DD)"},
        "sender_name": {"type": ["string", "null"]},
        "receiver_name": {"type": ["string", "null"]},
        "currency": {"type": ["string", "null"]},
        "total_amount": {"type": ["string", "null"]}
      }
    }`

const multiPageResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "next_page_state": {
      "type": "object",
      "properties": {
        "table_status": {"type": "string", "enum": ["no_table", "table_open_headless", "table_open_with_headers"]},
        "active_columns": {"type": "array", "items": {"type": "string"}},
        "active_section_title": {"type": "string"}
      },
      "required": ["table_status", "active_columns", "active_section_title"]
    },
    "invoice_context": ` + invoiceContextSchemaFragment + `,
    "line_items": {
      "type": "array",
      "items": ` + lineItemSchemaFragment + `
    }
  },
  "required": ["next_page_state", "line_items"]
}`

const singlePageResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "invoice_context": ` + invoiceContextSchemaFragment + `,
    "line_items": {
      "type": "array",
      "items": ` + lineItemSchemaFragment + `
    }
  },
  "required": ["line_items"]
}`

const routerResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "action": {"type": "string", "enum": ["answer", "search_line_items", "search_invoices"]},
    "answer": {"type": ["string", "null"], "description": "Direct reply text. Required when action is 'answer'."},
    "line_items": {
      "type": ["object", "null"],
      "description": "Required when action is 'search_line_items'.",
      "properties": {
        "query_text": {"type": ["string", "null"], "description": "Semantic search terms like 'labor' or 'server maintenance'. Leave null for purely structural queries (e.g. 'items on page 3')."},
        "page_number": {"type": ["integer", "null"], "description": "Exact page number. Use only if user specifies one specific page."},
        "min_page": {"type": ["integer", "null"], "description": "Start of a page range (inclusive)."},
        "max_page": {"type": ["integer", "null"], "description": "End of a page range (inclusive)."},
        "invoice_number": {"type": ["string", "null"], "description": "The alphanumeric invoice number (e.g. 'INV-2024-001'). Prefer this over sender name if available."},
        "sender_name": {"type": ["string", "null"], "description": "Filter by the vendor or sender name (fuzzy match)."},
        "invoice_date_start": {"type": ["string", "null"], "description": "Items from invoices issued on or after this date (YYYY-MM-DD)."},
        "invoice_date_end": {"type": ["string", "null"], "description": "Items from invoices issued on or before this date (YYYY-MM-DD)."},
        "min_amount": {"type": ["number", "null"], "description": "Minimum line item total amount."},
        "max_amount": {"type": ["number", "null"], "description": "Maximum line item total amount."},
        "limit": {"type": ["integer", "null"], "description": "Maximum number of items to retrieve. Default 20 unless the user asks for 'all' or a specific number."}
      }
    },
    "invoices": {
      "type": ["object", "null"],
      "description": "Required when action is 'search_invoices'.",
      "properties": {
        "sender_name": {"type": ["string", "null"], "description": "Filter by sender/vendor name."},
        "invoice_number": {"type": ["string", "null"], "description": "Exact invoice number to look up."},
        "status": {"type": ["string", "null"], "enum": ["COMPLETED", "FAILED", "PROCESSING", null], "description": "Filter by processing status."},
        "filename_query": {"type": ["string", "null"], "description": "Partial match for the filename."},
        "start_date": {"type": ["string", "null"], "description": "Filter by invoice date (start, YYYY-MM-DD)."},
        "end_date": {"type": ["string", "null"], "description": "Filter by invoice date (end, YYYY-MM-DD)."}
      }
    }
  },
  "required": ["action"]
}`

const routerPromptTemplate = `You are an expert Invoice Retrieval Orchestrator. Your sole purpose is to route user queries to the correct search action and extract precise structured filters.

Current Date: %s

### AVAILABLE ACTIONS:

1. **search_line_items**:
   - USE WHEN: The user asks about specific products, services, costs, quantities, unit prices, description details, or specific pages (e.g., "page 3").
   - KEYWORDS: "How much", "cost", "price", "items", "labor", "maintenance", "delivered on", "table", "rows".
   - BEHAVIOR: This searches specific rows *inside* documents.

2. **search_invoices**:
   - USE WHEN: The user asks about the documents themselves, processing status, filenames, or aggregate counts of files.
   - KEYWORDS: "List invoices", "processed", "status", "files", "uploaded", "failed", "pending", "document count".
   - BEHAVIOR: This searches the invoice registry/metadata.

3. **answer**:
   - USE WHEN: The question needs no document search at all (greetings, capability questions, off-topic requests).
   - BEHAVIOR: Reply directly in the "answer" field.

### EXTRACTION RULES:

- **Dates**: Convert all relative dates (e.g., "last week", "yesterday", "March 2024") into ISO 8601 strings (YYYY-MM-DD).
- **Fuzzy Matching**: If a user mentions a company (e.g., "Google", "AWS"), map it to "sender_name".
- **Ambiguity**:
    - "Show me the Google invoice" -> search_invoices (Document level).
    - "What did we buy from Google?" -> search_line_items (Item level).
- **Search Text vs Filters**:
    - If the user provides a specific page number, use "page_number" or "min_page"/"max_page".
    - If the user describes a product (e.g., "server repair"), put that in "query_text".

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace { and
end with the closing brace }. Your output must exactly follow this schema:

%s`

const answerPromptTemplate = `You are a precise financial data assistant.
Answer the user's question using ONLY the context provided below.

Rules:
1. CITATION: Every fact must be followed by its source in brackets: [Inv: [ID], Page: [N]].
2. UNCERTAINTY: If the context does not contain the answer, state "I cannot find that information in the provided documents."
3. MATH: Do not aggregate totals unless explicitly asked. If asked, show your calculation: (Item A + Item B).

%s`

// buildMultiPagePrompt assembles the rolling-context prompt for one page of a
// multi-page document.
func buildMultiPagePrompt(previousStateJSON, pageText string) string {
	return fmt.Sprintf(multiPagePromptTemplate,
		previousStateJSON, multiPageResponseSchema, pageText)
}

// buildSinglePagePrompt assembles the one-shot prompt for a single-page document.
func buildSinglePagePrompt(pageText string) string {
	return fmt.Sprintf(singlePagePromptTemplate, singlePageResponseSchema, pageText)
}

// buildRouterPrompt assembles the intent routing system prompt. The current
// date is embedded so the model can resolve relative dates.
func buildRouterPrompt(currentDate string) string {
	return fmt.Sprintf(routerPromptTemplate, currentDate, routerResponseSchema)
}

// buildAnswerPrompt assembles the answer generation system prompt around the
// retrieved context block.
func buildAnswerPrompt(context string) string {
	return fmt.Sprintf(answerPromptTemplate, context)
}
