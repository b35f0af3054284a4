package script

// BinaryStore maps the compiler's generated artifact filenames to module
// binaries. It is populated once per decoding session from the compiler's
// output and immutable thereafter; all entries share the session's
// lifetime.
type BinaryStore struct {
	modules map[string]ModuleBinary
}

// NewBinaryStore builds a store over the compiler's module output. The
// byte slices are adopted, not copied; the caller must not modify them
// afterwards.
func NewBinaryStore(modules map[string][]byte) *BinaryStore {
	m := make(map[string]ModuleBinary, len(modules))
	for name, wasm := range modules {
		m[name] = newModuleBinary(wasm)
	}
	return &BinaryStore{modules: m}
}

// Get returns the binary registered under filename.
func (s *BinaryStore) Get(filename string) (ModuleBinary, bool) {
	mod, ok := s.modules[filename]
	return mod, ok
}

// Len returns the number of stored binaries.
func (s *BinaryStore) Len() int { return len(s.modules) }
