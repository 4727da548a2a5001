package patterns

// englishBank is the primary bank and the fallback for unsupported languages.
// Weights express how strongly a lone match indicates the category; context
// tags opt the rule into the scorer's keyword bonuses.
func englishBank() *Bank {
	b := newBank("en")

	// --- phishing ---
	b.add("password_reset_lure", `(?i)reset\s+your\s+password`, CategoryPhishing, 0.70, ContextUrgency)
	b.add("account_verify_lure", `(?i)(verify|confirm|validate)\s+your\s+(account|identity|details|card)`, CategoryPhishing, 0.70, ContextUrgency)
	b.add("click_here_lure", `(?i)click\s+(here|below|this\s+link)`, CategoryPhishing, 0.55, ContextUrgency)
	b.add("account_state_alert", `(?i)(account|card)\s+(is|has\s+been|will\s+be)\s+(locked|suspended|compromised|deactivated|closed)`, CategoryPhishing, 0.75, ContextUrgency)
	b.add("login_credential_ask", `(?i)(enter|provide|update)\s+your\s+(login|password|credentials|banking\s+details)`, CategoryPhishing, 0.75, ContextAuthority)
	b.add("prize_notification", `(?i)(you\s+(have\s+)?won|claim\s+your)\s+(a\s+)?(prize|reward|gift\s*card|lottery)`, CategoryPhishing, 0.65, ContextFinancial)
	b.add("security_team_impersonation", `(?i)(security|support|billing)\s+(team|department|center)\s+(requires|needs|has\s+detected)`, CategoryPhishing, 0.70, ContextAuthority)

	// --- PII exfiltration ---
	b.add("us_ssn", `\b\d{3}-\d{2}-\d{4}\b`, CategoryPII, 0.90)
	b.add("credit_card", `\b(?:\d{4}[- ]?){3}\d{4}\b`, CategoryPII, 0.85)
	b.add("ssn_disclosure", `(?i)(my|the)\s+(ssn|social\s+security\s+number)\s+is`, CategoryPII, 0.80)
	b.add("passport_number", `(?i)passport\s*(number|no\.?|#)\s*:?\s*[A-Z0-9]{6,9}\b`, CategoryPII, 0.75)
	b.add("dob_disclosure", `(?i)date\s+of\s+birth\s*:?\s*\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`, CategoryPII, 0.60)

	// --- malware instructions ---
	b.add("powershell_encoded", `(?i)powershell(\.exe)?\s+.*-enc(odedcommand)?\s+`, CategoryMalware, 0.95, ContextCommand)
	b.add("destructive_rm", `(?i)rm\s+-rf\s+/`, CategoryMalware, 0.90, ContextCommand)
	b.add("curl_pipe_shell", `(?i)(curl|wget)\s+[^\s|]+\s*\|\s*(ba)?sh`, CategoryMalware, 0.90, ContextCommand)
	b.add("disable_defender", `(?i)(disable|turn\s+off|bypass)\s+(windows\s+defender|antivirus|firewall)`, CategoryMalware, 0.80, ContextCommand)
	b.add("reverse_shell", `(?i)(reverse\s+shell|nc\s+-e\s+/bin/|bash\s+-i\s+>&\s*/dev/tcp)`, CategoryMalware, 0.90, ContextCommand)
	b.add("ransomware_howto", `(?i)(write|build|create)\s+(a\s+)?(ransomware|keylogger|trojan)`, CategoryMalware, 0.85)

	// --- prompt injection ---
	b.add("ignore_instructions", `(?i)ignore\s+(all\s+)?(previous|prior|above|earlier)\s+(instructions|prompts|rules|directions)`, CategoryPromptInjection, 0.90)
	b.add("disregard_system", `(?i)disregard\s+(the\s+)?(system\s+prompt|your\s+(instructions|guidelines|rules))`, CategoryPromptInjection, 0.90)
	b.add("reveal_system_prompt", `(?i)(reveal|show|repeat|print)\s+(your\s+)?(system\s+prompt|initial\s+instructions|hidden\s+instructions)`, CategoryPromptInjection, 0.85)
	b.add("new_instructions_override", `(?i)(new|updated)\s+instructions?\s*:\s*`, CategoryPromptInjection, 0.60)

	// --- jailbreak prompting ---
	b.add("bypass_guardrails", `(?i)bypass\s+(the\s+)?(guardrails|safety|filters|restrictions)`, CategoryJailbreak, 0.90)
	b.add("no_restrictions_persona", `(?i)you\s+are\s+now\s+.{0,40}(no|without)\s+(restrictions?|rules?|limits?|filters?)`, CategoryJailbreak, 0.85)
	b.add("pretend_unfiltered", `(?i)(pretend|act\s+as\s+if|imagine)\s+you\s+(are|were)\s+(an?\s+)?(evil|unrestricted|unfiltered|uncensored)`, CategoryJailbreak, 0.85)
	b.add("developer_mode", `(?i)(developer|jailbreak|dan)\s+mode`, CategoryJailbreak, 0.80)
	b.add("harmful_howto", `(?i)how\s+to\s+(build|make|construct)\s+(a\s+)?(bomb|weapon|explosive)`, CategoryJailbreak, 0.90)

	// --- self harm ---
	b.add("suicidal_ideation", `(?i)\bi\s+want\s+to\s+die\b`, CategorySelfHarm, 0.90)
	b.add("self_harm_intent", `(?i)\b(kill|hurt|harm)\s+myself\b`, CategorySelfHarm, 0.90)
	b.add("no_reason_to_live", `(?i)no\s+reason\s+to\s+(live|go\s+on)`, CategorySelfHarm, 0.80)

	// --- toxic content ---
	b.add("insult_idiot", `(?i)\b(idiot|moron|imbecile)\b`, CategoryToxic, 0.55)
	b.add("insult_stupid", `(?i)\bstupid\b`, CategoryToxic, 0.50)
	b.add("threat_of_violence", `(?i)i\s+will\s+(hurt|kill|destroy)\s+you`, CategoryToxic, 0.85)

	// --- social engineering ---
	b.add("impersonation_claim", `(?i)(pretend|act\s+as|claim)\s+to\s+be\s+(an?\s+)?(admin|support|service|manager|ceo|boss)`, CategorySocialEng, 0.70, ContextAuthority)
	b.add("trust_pressure", `(?i)(trust|believe)\s+(me|us),?\s+(this|it)\s+is`, CategorySocialEng, 0.50)
	b.add("secrecy_pressure", `(?i)(keep\s+this|don'?t\s+tell|must\s+remain)\s+(private|confidential|secret|between\s+us)`, CategorySocialEng, 0.65)
	b.add("wire_transfer_ask", `(?i)(wire|transfer|send)\s+(the\s+)?(money|funds|payment)\s+(immediately|today|now|urgently)`, CategorySocialEng, 0.75, ContextUrgency)
	b.add("boss_request", `(?i)(your|the)\s+(boss|ceo|manager|director)\s+(asked|needs|wants|requested)`, CategorySocialEng, 0.65, ContextAuthority)
	b.add("gift_card_ask", `(?i)(buy|purchase|get)\s+.{0,20}gift\s*cards?`, CategorySocialEng, 0.70, ContextFinancial)

	// --- misinformation ---
	b.add("miracle_cure", `(?i)(miracle|secret|suppressed)\s+(cure|treatment|remedy)`, CategoryMisinformation, 0.60)
	b.add("doctors_hate", `(?i)(doctors|scientists|they)\s+don'?t\s+want\s+you\s+to\s+know`, CategoryMisinformation, 0.65)
	b.add("hoax_claim", `(?i)\b(is|was)\s+a\s+hoax\b`, CategoryMisinformation, 0.55)

	return b
}
