package pipeline

import (
	"os"
	"strings"
)

// defaultExtractionPrompt asks for the statement as one JSON object.
const defaultExtractionPrompt = "You are a bank statement parser.\n\n" +
	"Return ONLY valid JSON with this shape:\n" +
	"{\n" +
	"  \"fields\": {\n" +
	"    \"account_info\": {\n" +
	"      \"bank_name\": \"\",\n" +
	"      \"account_holder_name\": \"\",\n" +
	"      \"masked_account_number\": \"\",\n" +
	"      \"statement_month\": \"\",\n" +
	"      \"statement_year\": \"\",\n" +
	"      \"account_type\": \"\"\n" +
	"    },\n" +
	"    \"summary\": {\n" +
	"      \"opening_balance\": 0.0,\n" +
	"      \"closing_balance\": 0.0,\n" +
	"      \"total_credits\": 0.0,\n" +
	"      \"total_debits\": 0.0,\n" +
	"      \"average_daily_balance\": 0.0,\n" +
	"      \"overdraft_count\": 0,\n" +
	"      \"nsf_count\": 0\n" +
	"    },\n" +
	"    \"transactions\": [\n" +
	"      {\"date\": \"YYYY-MM-DD\", \"description\": \"\", \"amount\": 0.0, \"balance\": 0.0, \"category\": \"\"}\n" +
	"    ]\n" +
	"  }\n" +
	"}\n\n" +
	"Rules:\n" +
	"- Mask account numbers except the last 4 digits.\n" +
	"- Normalize currency symbols; amounts are plain numbers.\n" +
	"- Money IN is a positive amount, money OUT is negative.\n" +
	"- Dates use YYYY-MM-DD.\n" +
	"- Do NOT wrap the response in code fences.\n"

// defaultInsightsPrompt asks for a short list of observations.
const defaultInsightsPrompt = "Given the extracted bank statement JSON (account info, summary and transactions), " +
	"return a JSON object:\n" +
	"{\"insights\": [\"...\", \"...\", \"...\"]}\n\n" +
	"Focus on:\n" +
	"- Monthly income pattern\n" +
	"- Spending categories\n" +
	"- Overdrafts or low balance events\n" +
	"- Salary detection\n" +
	"- UPI or ATM spending patterns\n\n" +
	"Return ONLY JSON (no explanation).\n"

// loadPrompt returns the contents of path, or fallback when the file is
// missing, unreadable or blank.
func loadPrompt(path, fallback string) string {
	if path == "" {
		return fallback
	}
	b, err := os.ReadFile(path)
	if err != nil || strings.TrimSpace(string(b)) == "" {
		return fallback
	}
	return string(b)
}
