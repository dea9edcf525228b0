package chat

import "strings"

// MaxMessageLen é o tamanho máximo de cada mensagem enviada ao cliente.
const MaxMessageLen = 500

// SplitReply quebra a resposta em mensagens de até limit caracteres,
// cortando primeiro entre parágrafos e depois entre linhas. Uma linha
// sozinha maior que limit é enviada inteira.
func SplitReply(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 || len([]rune(text)) <= limit {
		return []string{text}
	}

	var (
		msgs []string
		curr strings.Builder
	)
	size := func(s string) int { return len([]rune(s)) }
	flush := func() {
		if s := strings.TrimSpace(curr.String()); s != "" {
			msgs = append(msgs, s)
		}
		curr.Reset()
	}

	for _, p := range strings.Split(text, "\n\n") {
		if size(p) > limit {
			flush()
			for _, line := range strings.Split(p, "\n") {
				if size(curr.String())+size(line)+1 > limit {
					flush()
				}
				curr.WriteString(line)
				curr.WriteString("\n")
			}
			continue
		}
		if size(curr.String())+size(p)+2 > limit {
			flush()
		}
		curr.WriteString(p)
		curr.WriteString("\n\n")
	}
	flush()
	return msgs
}
