//go:build !unix

package volume

func diskUsage(string) (Usage, error) {
	return Usage{}, ErrUsageUnsupported
}
