package collector

import (
	"sort"
	"time"
)

// ClassInfo es una fila del histograma: instancias y bytes de una clase.
type ClassInfo struct {
	Name      string `json:"name"`
	Instances int64  `json:"instances"`
	Bytes     int64  `json:"bytes"`
}

// HeapHistogram es un snapshot por clase de los objetos vivos más los totales.
type HeapHistogram struct {
	Time           time.Time   `json:"time"`
	Classes        []ClassInfo `json:"classes"`
	TotalInstances int64       `json:"totalInstances"`
	TotalBytes     int64       `json:"totalBytes"`
}

// Add acumula other en h. Es asociativo y conmutativo: el resultado no depende
// del orden en que se suman los nodos (clases ordenadas por bytes desc, nombre asc).
func (h *HeapHistogram) Add(other *HeapHistogram) {
	if other == nil {
		return
	}
	byName := make(map[string]int, len(h.Classes)+len(other.Classes))
	merged := make([]ClassInfo, 0, len(h.Classes)+len(other.Classes))
	for _, list := range [][]ClassInfo{h.Classes, other.Classes} {
		for _, c := range list {
			if i, ok := byName[c.Name]; ok {
				merged[i].Instances += c.Instances
				merged[i].Bytes += c.Bytes
				continue
			}
			byName[c.Name] = len(merged)
			merged = append(merged, c)
		}
	}
	h.Classes = merged
	if other.Time.After(h.Time) {
		h.Time = other.Time
	}
	h.normalize()
}

// normalize recalcula totales y ordena las clases.
func (h *HeapHistogram) normalize() {
	var inst, bytes int64
	for _, c := range h.Classes {
		inst += c.Instances
		bytes += c.Bytes
	}
	h.TotalInstances = inst
	h.TotalBytes = bytes
	sort.SliceStable(h.Classes, func(i, j int) bool {
		if h.Classes[i].Bytes != h.Classes[j].Bytes {
			return h.Classes[i].Bytes > h.Classes[j].Bytes
		}
		return h.Classes[i].Name < h.Classes[j].Name
	})
}

// MergeHistograms siembra con el primer histograma y suma el resto en orden.
// Devuelve nil si la lista está vacía. No modifica los argumentos.
func MergeHistograms(list []*HeapHistogram) *HeapHistogram {
	var total *HeapHistogram
	for _, h := range list {
		if h == nil {
			continue
		}
		if total == nil {
			total = &HeapHistogram{Time: h.Time}
		}
		total.Add(h)
	}
	return total
}
