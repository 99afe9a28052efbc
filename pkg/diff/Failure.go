// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package diff

// Failure is a source path that could not be compared.
type Failure struct {
	Path string
	Err  error
}

func (f *Failure) Error() string {
	return f.Path + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}
