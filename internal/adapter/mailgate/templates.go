package mailgate

import (
	"fmt"
	"strings"
)

// Factory emails are written in the factory's language, selected by country
// code. Unknown countries fall back to Russian, the office's working language.

const defaultLanguage = "ru"

var countryLanguages = map[string]string{
	"IT": "it",
	"TR": "tr",
	"PL": "pl",
	"CZ": "cz",
	"CN": "cn",
	"LT": "lt",
	"CH": "ch", // Swiss factories are addressed in German
}

var subjects = map[string]string{
	"it": "Ordine di produzione",
	"tr": "Üretim siparişi",
	"pl": "Zamówienie produkcyjne",
	"cz": "Výrobní objednávka",
	"cn": "生产订单",
	"lt": "Gamybos užsakymas",
	"ch": "Produktionsauftrag",
	"ru": "Заказ на производство",
}

var bodies = map[string]string{
	"it": "Buongiorno,\n\nin allegato trovate l'ordine di produzione \"%s\".\nVi preghiamo di confermare la ricezione.\n\nCordiali saluti,\n%s",
	"tr": "Merhaba,\n\nÜretim siparişi \"%s\" ektedir.\nLütfen alındığını onaylayın.\n\nSaygılarımızla,\n%s",
	"pl": "Dzień dobry,\n\nw załączniku przesyłamy zamówienie produkcyjne \"%s\".\nProsimy o potwierdzenie odbioru.\n\nZ poważaniem,\n%s",
	"cz": "Dobrý den,\n\nv příloze zasíláme výrobní objednávku \"%s\".\nProsíme o potvrzení přijetí.\n\nS pozdravem,\n%s",
	"cn": "您好，\n\n附件是生产订单 \"%s\"。\n请确认收到。\n\n此致，\n%s",
	"lt": "Laba diena,\n\npriede siunčiame gamybos užsakymą \"%s\".\nPrašome patvirtinti gavimą.\n\nPagarbiai,\n%s",
	"ch": "Guten Tag,\n\nim Anhang finden Sie den Produktionsauftrag \"%s\".\nBitte bestätigen Sie den Erhalt.\n\nMit freundlichen Grüssen,\n%s",
	"ru": "Здравствуйте,\n\nво вложении заказ на производство \"%s\".\nПожалуйста, подтвердите получение.\n\nС уважением,\n%s",
}

// LanguageByCountry returns the email language for a factory country code.
func LanguageByCountry(countryCode string) string {
	if lang, ok := countryLanguages[strings.ToUpper(countryCode)]; ok {
		return lang
	}
	return defaultLanguage
}

// ComposeOrderEmail renders subject and bodies of a factory order email.
func ComposeOrderEmail(countryCode, orderTitle, senderName string) (subject, htmlBody, textBody string) {
	lang := LanguageByCountry(countryCode)
	subject = fmt.Sprintf("%s: %s", subjects[lang], orderTitle)
	textBody = fmt.Sprintf(bodies[lang], orderTitle, senderName)
	htmlBody = "<html><body><p>" + strings.ReplaceAll(textBody, "\n", "<br>") + "</p></body></html>"
	return subject, htmlBody, textBody
}
