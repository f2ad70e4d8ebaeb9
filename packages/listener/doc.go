// Package listener binds an HTTP cassette recorder to the lifecycle of
// individual tests.
//
// Before a test runs, StartTest looks up the test's doc comment, takes the
// last "@vcr <cassette>" directive, applies the static recorder options and
// inserts the cassette. After the test, EndTest turns the recorder off no
// matter how the test ended.
//
// Typical use from a test package:
//
//	var hook *listener.Listener
//
//	func TestMain(m *testing.M) {
//	    registry, err := annotation.ScanDir(".")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    hook = listener.NewVCR(recorder, registry, listener.WithOptions(cfg.Options))
//	    os.Exit(m.Run())
//	}
//
//	// @vcr fixtures/login.yml
//	func TestLogin(t *testing.T) {
//	    hook.Bind(t)
//	    ...
//	}
package listener
