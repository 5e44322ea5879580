package results

// Quota é o saldo diário de chamadas à fonte de resultados. Passa como valor
// por cada fetch e volta atualizada, em vez de contador global de processo,
// para que testes injetem um saldo fixo e o orquestrador decida quando parar.
type Quota struct {
	Limit int `json:"limit"`
	Used  int `json:"used"`
}

// Remaining retorna quantas chamadas ainda cabem no dia.
func (q Quota) Remaining() int {
	if q.Limit <= 0 {
		return 0
	}
	if r := q.Limit - q.Used; r > 0 {
		return r
	}
	return 0
}

// Exhausted indica que nenhuma chamada real deve mais ser feita nesta passagem.
func (q Quota) Exhausted() bool {
	return q.Limit > 0 && q.Used >= q.Limit
}

func (q Quota) spend() Quota {
	q.Used++
	return q
}
