package lifetime_test

import (
	"testing"

	"github.com/tarik-lang/tarikc/internal/lifetime"
	"github.com/tarik-lang/tarikc/internal/parser"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/sema"
)

func check(t *testing.T, src string) *position.Bucket {
	t.Helper()
	bucket := position.NewBucket()
	file := parser.ParseFile("test.tarik", src, nil, bucket)
	if bucket.ErrorCount() > 0 {
		t.Fatalf("unexpected parse errors: %v", bucket.Diagnostics())
	}
	prog := sema.NewProgram()
	sema.PreScan(prog, file, bucket)
	typed := sema.AnalyseFile(prog, file, bucket)
	if bucket.ErrorCount() > 0 {
		t.Fatalf("unexpected semantic errors: %v", bucket.Diagnostics())
	}
	lifetime.NewChecker(bucket, prog).CheckFile(typed)
	return bucket
}

func TestReturningAddressOfLocalIsError(t *testing.T) {
	src := `
fn dangling() i32* {
	i32 x;
	x = 1;
	return &x;
}
`
	bucket := check(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected a returned-local-address error, got none")
	}
}

func TestReturningByValueIsFine(t *testing.T) {
	src := `
fn give() i32 {
	i32 x;
	x = 1;
	return x;
}
`
	bucket := check(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected no lifetime errors returning by value, got %v", bucket.Diagnostics())
	}
}

func TestBorrowingParameterAndReturningIsFine(t *testing.T) {
	src := `
fn identity(i32* p) i32* {
	return p;
}
`
	bucket := check(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected no lifetime errors returning a borrowed parameter, got %v", bucket.Diagnostics())
	}
}

func TestAssigningLocalAddressThenReturningBorrowerIsError(t *testing.T) {
	src := `
fn dangling() i32* {
	i32 x;
	x = 1;
	i32* p;
	p = &x;
	return p;
}
`
	bucket := check(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected an error when returning a pointer chained back to a local, got none")
	}
}
