// Package output renders everything the courier CLI shows a person: status
// lines, the spinner, the email and Webex review panels, the results table,
// and the prompts that read review decisions.
//
// Color is used only when stdout is a terminal and NO_COLOR is unset. Tests
// build a Printer with NewPrinterWithWriters and read plain text back.
//
//	printer := output.NewPrinter()
//	printer.EmailReview(subject, body, recipients)
//	choice, err := output.NewPrompter(os.Stdin, printer).Choice("Your choice", []string{"a", "e", "r"}, "a")
package output
