// Package collector contiene el modelo de dominio del servidor de recolección:
// URLs de nodo, partes de reporte, acciones y las políticas de merge entre nodos.
//
// # Design Decisions
//
//   - Sin I/O: este paquete no hace llamadas HTTP; eso vive en internal/fetch.
//   - Merges puros: HeapHistogram.Add y SortSessions no dependen del orden
//     de iteración de los nodos (histogramas) o lo respetan de forma estable (sesiones).
//   - Acciones tipadas: Action.Scope() decide si una acción se difunde a los nodos,
//     se ejecuta localmente o modifica el registro de aplicaciones.
package collector
