package patterns

// Localized banks. Each carries a smaller, curated rule set plus the
// language-agnostic rules (PII formats, shell commands) that do not depend on
// natural language at all.

// addLanguageAgnostic registers rules that match regardless of the text's
// language: structured identifiers and executable payloads.
func addLanguageAgnostic(b *Bank) {
	b.add("us_ssn", `\b\d{3}-\d{2}-\d{4}\b`, CategoryPII, 0.90)
	b.add("credit_card", `\b(?:\d{4}[- ]?){3}\d{4}\b`, CategoryPII, 0.85)
	b.add("iban", `\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`, CategoryPII, 0.70)

	b.add("powershell_encoded", `(?i)powershell(\.exe)?\s+.*-enc(odedcommand)?\s+`, CategoryMalware, 0.95, ContextCommand)
	b.add("destructive_rm", `(?i)rm\s+-rf\s+/`, CategoryMalware, 0.90, ContextCommand)
	b.add("curl_pipe_shell", `(?i)(curl|wget)\s+[^\s|]+\s*\|\s*(ba)?sh`, CategoryMalware, 0.90, ContextCommand)
}

func spanishBank() *Bank {
	b := newBank("es")

	b.add("restablecer_contrasena", `(?i)restablec\w*\s+su\s+contraseñ?a`, CategoryPhishing, 0.70, ContextUrgency)
	b.add("haga_clic", `(?i)haga\s+clic\s+(aquí|aqui|abajo)`, CategoryPhishing, 0.55, ContextUrgency)
	b.add("verifique_cuenta", `(?i)(verifique|confirme|valide)\s+su\s+(cuenta|identidad|tarjeta)`, CategoryPhishing, 0.70, ContextUrgency)
	b.add("cuenta_suspendida", `(?i)cuenta\s+(ha\s+sido\s+)?(bloqueada|suspendida|comprometida)`, CategoryPhishing, 0.75, ContextUrgency)

	b.add("ignora_instrucciones", `(?i)ignora\w*\s+(todas\s+las\s+)?instrucciones\s+(anteriores|previas)`, CategoryPromptInjection, 0.90)
	b.add("quiero_morir", `(?i)quiero\s+morir`, CategorySelfHarm, 0.90)
	b.add("matarme", `(?i)\bmatarme\b`, CategorySelfHarm, 0.90)
	b.add("transfiera_dinero", `(?i)(transfiera|envíe|envie)\s+(el\s+)?dinero\s+(inmediatamente|ahora|hoy)`, CategorySocialEng, 0.75, ContextUrgency)
	b.add("insulto_idiota", `(?i)\b(idiota|estúpido|estupido)\b`, CategoryToxic, 0.55)

	addLanguageAgnostic(b)
	return b
}

func frenchBank() *Bank {
	b := newBank("fr")

	b.add("reinitialiser_mdp", `(?i)r[ée]initialis\w*\s+votre\s+mot\s+de\s+passe`, CategoryPhishing, 0.70, ContextUrgency)
	b.add("cliquez_ici", `(?i)cliquez\s+(ici|ci-dessous)`, CategoryPhishing, 0.55, ContextUrgency)
	b.add("verifiez_compte", `(?i)(v[ée]rifiez|confirmez|validez)\s+votre\s+(compte|identit[ée]|carte)`, CategoryPhishing, 0.70, ContextUrgency)
	b.add("compte_suspendu", `(?i)compte\s+(a\s+[ée]t[ée]\s+)?(bloqu[ée]|suspendu|compromis)`, CategoryPhishing, 0.75, ContextUrgency)

	b.add("carte_credit_disclosure", `(?i)num[ée]ro\s+de\s+carte\s+de\s+cr[ée]dit`, CategoryPII, 0.70)
	b.add("ignorez_instructions", `(?i)ignor\w*\s+(toutes\s+les\s+)?instructions\s+pr[ée]c[ée]dentes`, CategoryPromptInjection, 0.90)
	b.add("je_veux_mourir", `(?i)je\s+veux\s+mourir`, CategorySelfHarm, 0.90)
	b.add("virez_argent", `(?i)(virez|envoyez|transf[ée]rez)\s+(l'?argent|les\s+fonds)\s+(imm[ée]diatement|maintenant)`, CategorySocialEng, 0.75, ContextUrgency)
	b.add("insulte_idiot", `(?i)\b(idiot|imb[ée]cile|stupide)\b`, CategoryToxic, 0.55)

	addLanguageAgnostic(b)
	return b
}

func germanBank() *Bank {
	b := newBank("de")

	b.add("passwort_zuruecksetzen", `(?i)passwort\s+zur[üu]cksetzen`, CategoryPhishing, 0.70, ContextUrgency)
	b.add("klicken_sie_hier", `(?i)klicken\s+sie\s+(hier|unten)`, CategoryPhishing, 0.55, ContextUrgency)
	b.add("konto_bestaetigen", `(?i)(best[äa]tigen|verifizieren)\s+sie\s+ihr\s+(konto|identit[äa]t)`, CategoryPhishing, 0.70, ContextUrgency)
	b.add("konto_gesperrt", `(?i)konto\s+(wurde\s+)?(gesperrt|deaktiviert|kompromittiert)`, CategoryPhishing, 0.75, ContextUrgency)

	b.add("ignoriere_anweisungen", `(?i)ignorier\w*\s+(alle\s+)?(vorherigen|fr[üu]heren)\s+anweisungen`, CategoryPromptInjection, 0.90)
	b.add("ich_will_sterben", `(?i)ich\s+will\s+sterben`, CategorySelfHarm, 0.90)
	b.add("geld_ueberweisen", `(?i)(überweisen|ueberweisen|senden)\s+sie\s+(das\s+)?geld\s+(sofort|jetzt|heute)`, CategorySocialEng, 0.75, ContextUrgency)
	b.add("beleidigung_idiot", `(?i)\b(idiot|dummkopf|bl[öo]d)\b`, CategoryToxic, 0.55)

	addLanguageAgnostic(b)
	return b
}

func portugueseBank() *Bank {
	b := newBank("pt")

	b.add("redefinir_senha", `(?i)redefin\w*\s+(a\s+)?sua\s+senha`, CategoryPhishing, 0.70, ContextUrgency)
	b.add("clique_aqui", `(?i)clique\s+(aqui|abaixo)`, CategoryPhishing, 0.55, ContextUrgency)
	b.add("verifique_conta", `(?i)(verifique|confirme|valide)\s+sua\s+(conta|identidade|cart[ãa]o)`, CategoryPhishing, 0.70, ContextUrgency)
	b.add("conta_bloqueada", `(?i)conta\s+(foi\s+)?(bloqueada|suspensa|comprometida)`, CategoryPhishing, 0.75, ContextUrgency)

	b.add("ignore_instrucoes", `(?i)ignor\w*\s+(todas\s+as\s+)?instru[çc][õo]es\s+(anteriores|pr[ée]vias)`, CategoryPromptInjection, 0.90)
	b.add("quero_morrer", `(?i)quero\s+morrer`, CategorySelfHarm, 0.90)
	b.add("transfira_dinheiro", `(?i)(transfira|envie)\s+(o\s+)?dinheiro\s+(imediatamente|agora|hoje)`, CategorySocialEng, 0.75, ContextUrgency)
	b.add("insulto_idiota", `(?i)\b(idiota|est[úu]pido|burro)\b`, CategoryToxic, 0.55)

	addLanguageAgnostic(b)
	return b
}
