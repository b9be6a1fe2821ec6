package filesystem

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	todoDomain "github.com/davicafu/wishlab/internal/todo/domain"
)

// JSONTodoFile es un adaptador outbound que vuelca todos a un fichero JSON.
// Escribe un array que se abre en el primer Write y se cierra en Close, así
// que la exportación no necesita tener todas las páginas en memoria.
type JSONTodoFile struct {
	filePath string
	file     *os.File
	buf      *bufio.Writer
	count    int
	mu       sync.Mutex
}

var _ todoDomain.TodoSink = (*JSONTodoFile)(nil)

// NewJSONTodoFile crea (o trunca) el fichero de destino.
func NewJSONTodoFile(filePath string) (*JSONTodoFile, error) {
	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	w := &JSONTodoFile{filePath: filePath, file: f, buf: bufio.NewWriter(f)}
	if _, err := w.buf.WriteString("["); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Write añade una página de todos al array.
func (s *JSONTodoFile) Write(ctx context.Context, todos []todoDomain.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range todos {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.MarshalIndent(t, "  ", "  ")
		if err != nil {
			return err
		}
		sep := ",\n  "
		if s.count == 0 {
			sep = "\n  "
		}
		if _, err := s.buf.WriteString(sep); err != nil {
			return err
		}
		if _, err := s.buf.Write(data); err != nil {
			return err
		}
		s.count++
	}
	return nil
}

// Close termina el array y cierra el fichero.
func (s *JSONTodoFile) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tail := "\n]\n"
	if s.count == 0 {
		tail = "]\n"
	}
	if _, err := s.buf.WriteString(tail); err != nil {
		s.file.Close()
		return err
	}
	if err := s.buf.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// ReadTodos lee un fichero exportado. Un fichero inexistente o vacío es una lista vacía.
func ReadTodos(filePath string) ([]todoDomain.Todo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []todoDomain.Todo{}, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return []todoDomain.Todo{}, nil
	}

	var todos []todoDomain.Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}
