package collector

import "sort"

// SortSessions ordena por actividad más reciente primero.
// Es estable: los empates conservan el orden de concatenación entre nodos.
func SortSessions(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastAccess.After(sessions[j].LastAccess)
	})
}

// ConcatSessions concatena las listas por nodo (sin deduplicar: una sesión vive
// en un único nodo) y ordena el resultado.
func ConcatSessions(perNode [][]Session) []Session {
	n := 0
	for _, l := range perNode {
		n += len(l)
	}
	out := make([]Session, 0, n)
	for _, l := range perNode {
		out = append(out, l...)
	}
	SortSessions(out)
	return out
}
