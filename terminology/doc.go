// Package terminology checks codes against value sets.
//
// A Service holds CodeSystems and ValueSets in memory. It is preloaded with
// the value sets bound to Account and Patient codes, and more can be added
// from r4.CodeSystem / r4.ValueSet definitions or raw JSON (single
// resources or Bundles).
//
// A Checker walks a resource and reports codes that fall outside their
// required binding as code-invalid issues:
//
//	svc := terminology.New()
//	result, err := terminology.NewChecker(svc).CheckPatient(ctx, p)
//	for _, issue := range result.Errors() {
//	    fmt.Println(issue)
//	}
//
// Terminology checks are opt-in. Constructors and the codec never call
// into this package.
package terminology
