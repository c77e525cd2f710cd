// Package i18n loads message catalogs from YAML or JSON and translates keys
// with %{name} placeholders and plural forms.
//
// Translations are keyed by language at the top level and may nest:
//
//	en:
//	  notifications:
//	    welcome:
//	      subject: "Welcome, %{name}"
//
// A lookup for "pt-BR" falls back to "pt" and then to the default language.
// *Translator satisfies notify.Translator, so notification lines can use
// message keys as templates:
//
//	tr, err := i18n.NewTranslator(ctx, i18n.NewFSAdapter(i18n.NewYAMLParser(), locales, "locales"))
//	if err != nil {
//		return err
//	}
//	sender := notify.NewSender(router, notify.WithTranslator(tr))
package i18n
