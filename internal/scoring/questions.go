// internal/scoring/questions.go
package scoring

// QuestionText is the wording shown to the lead for one question.
type QuestionText struct {
	ID       Question
	Category string
	Title    string
	Options  map[Option]string
}

var questionnaire = []QuestionText{
	{
		ID:       Q1,
		Category: questionCategory[Q1],
		Title:    "Onde e como você armazena as informações do seu negócio?",
		Options: map[Option]string{
			OptionA: "Principalmente no papel, WhatsApp ou na memória",
			OptionB: "Planilhas soltas ou um sistema básico sem integração",
			OptionC: "Sistema integrado que centraliza clientes, vendas e estoque",
			OptionD: "Múltiplos sistemas integrados com backup automático e acesso controlado",
		},
	},
	{
		ID:       Q2,
		Category: questionCategory[Q2],
		Title:    "Quão rápido você consegue uma informação específica quando precisa?",
		Options: map[Option]string{
			OptionA: "Preciso procurar em vários lugares e demoro horas/dias",
			OptionB: "Consigo a maioria das informações em alguns cliques, mas às vezes é trabalhoso",
			OptionC: "Informações principais estão sempre a poucos cliques de distância",
			OptionD: "Qualquer informação relevante fica disponível em segundos, inclusive no celular",
		},
	},
	{
		ID:       Q3,
		Category: questionCategory[Q3],
		Title:    "Com que regularidade você olha os números do seu negócio?",
		Options: map[Option]string{
			OptionA: "Apenas quando surge algum problema ou no fim do mês",
			OptionB: "Semanalmente verifico faturamento e algumas métricas básicas",
			OptionC: "Diariamente acompanho indicadores principais e semanalmente faço análises",
			OptionD: "Tenho dashboards que consulto diariamente e análises semanais estruturadas",
		},
	},
	{
		ID:       Q4,
		Category: questionCategory[Q4],
		Title:    "Você consegue conectar dados de diferentes áreas para entender o negócio?",
		Options: map[Option]string{
			OptionA: "Cada informação fica isolada, não consigo conectar",
			OptionB: "Consigo relacionar algumas informações com esforço manual",
			OptionC: "Cruzo dados facilmente entre vendas, clientes e estoque",
			OptionD: "Analiso relações complexas (ex: margem por cliente, sazonalidade por produto)",
		},
	},
	{
		ID:       Q5,
		Category: questionCategory[Q5],
		Title:    "Quando você toma uma decisão importante, como usa as informações disponíveis?",
		Options: map[Option]string{
			OptionA: "Decido principalmente por experiência e intuição",
			OptionB: "Consulto alguns números para validar o que já penso",
			OptionC: "Analiso dados históricos antes de decidir",
			OptionD: "Comparo cenários, analiso tendências e testo hipóteses antes de decidir",
		},
	},
	{
		ID:       Q6,
		Category: questionCategory[Q6],
		Title:    "Você identifica oportunidades analisando padrões nos seus dados?",
		Options: map[Option]string{
			OptionA: "Oportunidades aparecem por acaso ou observação casual",
			OptionB: "Às vezes noto padrões óbvios (ex: produto que vende mais)",
			OptionC: "Regularmente descubro insights úteis (ex: clientes mais lucrativos, horários de pico)",
			OptionD: "Consistentemente encontro oportunidades não óbvias que geram resultados mensuráveis",
		},
	},
}

// Questionnaire returns the six questions in order.
func Questionnaire() []QuestionText {
	out := make([]QuestionText, len(questionnaire))
	copy(out, questionnaire)
	return out
}
