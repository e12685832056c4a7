package prompt

import "strings"

// translations is an ordered lookup table mapping the Portuguese domain
// vocabulary to English for providers that only accept English prompts.
// Longer phrases come first so they win over the short connectives at the
// bottom. This is best-effort lexical substitution, lossy and incomplete by
// design: any substring not present here passes through unchanged. It is not
// a translator.
var translations = []struct {
	pt string
	en string
}{
	// Template phrases.
	{"Foto de produto hiper-realista", "Hyper-realistic product photo"},
	{"bombom artesanal de", "artisanal bonbon made of"},
	{"casquinha externa pintada por completo e uniformemente na cor", "outer shell completely and uniformly painted in"},
	{"sem pintura na casquinha", "no paint on the shell"},
	{"O bombom está cortado ao meio, mostrando claramente a seção interna.", "The bonbon is cut in half, clearly showing the internal cross-section."},
	{"A ordem dos recheios é:", "The filling order is:"},
	{"de altura com", "of the height with"},
	{"e nos", "and in the"},
	{"do topo", "at the top"},
	{"base até", "base up to"},
	{"Iluminação de estúdio suave, fundo neutro, foco nítido, detalhes de textura do chocolate e recheio.", "Soft studio lighting, neutral background, sharp focus, detailed chocolate and filling textures."},
	{"Uma mesa branca embaixo e nenhum outro objeto adicional na foto gerada.", "A white table underneath and no other additional objects in the generated photo."},
	{"Sem texto, sem logos, sem mãos, sem utensílios, sem objetos extras.", "No text, no logos, no hands, no utensils, no extra objects."},

	// Chocolate types.
	{"Chocolate ao Leite", "Milk Chocolate"},
	{"Chocolate Meio Amargo", "Semi Sweet Chocolate"},
	{"Chocolate Branco", "White Chocolate"},
	{"Chocolate 70% Cacau", "70% Cocoa Chocolate"},

	// Bases.
	{"Somente chocolate", "Only chocolate"},
	{"Bolacha Triturada", "Crushed Cookies"},
	{"Sucrilhos Triturado", "Crushed Cereal"},
	{"base crocante de chocolate com sucrilhos", "crunchy chocolate base with cereal"},

	// Ganaches.
	{"Ganache de Chocolate", "Chocolate Ganache"},
	{"Ganache de Caramelo", "Caramel Ganache"},
	{"Ganache de Frutas Vermelhas", "Red Berries Ganache"},
	{"Ganache de Maracujá", "Passion Fruit Ganache"},
	{"Ganache de Café", "Coffee Ganache"},
	{"Ganache de Morango", "Strawberry Ganache"},
	{"ganache de morango", "strawberry ganache"},

	// Jams.
	{"Geleia de Morango", "Strawberry Jam"},
	{"Geleia de Framboesa", "Raspberry Jam"},
	{"Geleia de Maracujá", "Passion Fruit Jam"},
	{"Geleia de Damasco", "Apricot Jam"},
	{"geléia de morango", "strawberry jam"},
	{"Sem Geleia", "No Jam"},
	{"Sem Geléia", "No Jam"},

	// Colors.
	{"Rosa", "Pink"},
	{"Azul", "Blue"},
	{"Verde", "Green"},
	{"Amarelo", "Yellow"},
	{"Roxo", "Purple"},
	{"Laranja", "Orange"},
	{"Vermelho", "Red"},
	{"Branco", "White"},

	// Connectives last so phrase entries stay intact.
	{" com ", " with "},
	{" e ", " and "},
}

// Translate rewrites known Portuguese domain vocabulary into English ahead of
// dispatch to English-only providers. Unknown substrings pass through.
func Translate(s string) string {
	for _, t := range translations {
		s = strings.ReplaceAll(s, t.pt, t.en)
	}
	return s
}
