package keywords

// Built-in vocabularies. These are the process-wide defaults; deployments can
// override any of them with a YAML file (see LoadFile). Phrases are matched
// as substrings against lowercased text, so keep entries lowercase and avoid
// leading/trailing whitespace.

func builtinVocabularies() map[Category][]string {
	return map[Category][]string{
		CategorySpam: {
			"free", "winner", "claim", "prize", "congratulations", "urgent",
			"investment", "guaranteed", "profit", "click here", "limited time",
			"act now", "risk-free", "sugar daddy", "allowance", "security",
			"defense", "india", "bank", "bomb",
		},

		CategorySextortion: {
			"expose", "leak", "ruin", "post", "share", "family", "friends",
			"employer", "shame", "humiliate", "destroy your life", "private",
			"intimate", "explicit", "nude", "naked", "photos", "video",
			"webcam", "compromising", "pay", "money", "payment", "bitcoin",
			"gift card", "unless", "or else", "last chance", "immediately",
		},

		CategoryTechLure: {
			"recruiter", "hiring", "job offer", "urgent opening", "interview",
			"salary", "confidential project", "nda", "crypto", "token",
			"presale", "ico", "nft", "whitelist", "guaranteed return",
			"trading bot", "investment opportunity", "startup", "co-founder",
			"proprietary algorithm", "github", "beta access", "test my app",
			"download", "install", ".exe", "run this script",
		},

		CategoryBioLure: {
			"crypto", "forex", "invest", "trader", "dm for rates", "cashapp",
		},

		CategoryLoveBombing: {
			"soulmate", "perfect for me", "destiny", "fate", "meant to be",
			"my everything", "never felt this way", "so fast", "so quickly",
			"can't live without you", "my one and only", "future together",
			"our future", "dream of you", "always thinking of you",
			"perfect match",
		},

		// Platform-migration phrases (telegram/whatsapp/signal) are urgency
		// signals: moving the mark to an unmonitored channel is the classic
		// de-anonymization step.
		CategoryUrgency: {
			"act now", "right now", "immediately", "quick", "hurry",
			"don't wait", "last chance", "today only", "before it's too late",
			"limited time", "do it now", "need you to", "let's move to",
			"telegram", "whatsapp", "signal", "talk off this app",
		},

		CategorySecrecy: {
			"don't tell anyone", "keep this between us", "our secret",
			"nobody would understand", "they won't understand",
			"your friends are wrong", "your family doesn't get it",
			"only i understand you",
		},

		CategoryAIDisclaimer: {
			"i can assist you", "i can help you", "furthermore",
			"in conclusion", "it is important to note", "i am just an ai",
			"as an ai", "as a language model", "i do not have personal",
			"i am unable to", "my purpose is to", "i can provide you with",
		},

		CategoryHumanFiller: {
			"lol", "lmao", "omg", "btw", "tbh", "imo", "fr", "no cap",
			"like,", "you know,", "i mean,", "kinda", "sorta", "um,", "uh,",
		},
	}
}
