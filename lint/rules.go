// Copyright © 2024 The XCTLint authors

package lint

import (
	"github.com/luthersystems/xctlint/syntax"
)

// KindIdiomatic is the category of every built-in rule.
const KindIdiomatic = "idiomatic"

// Rule identifiers.
const (
	MissingSuperCallID        = "xct_missing_super_setup_teardown"
	NullifyStoredPropertiesID = "xct_nullify_stored_properties"
	ResetSharedStateID        = "xct_reset_shared_state"
)

// MissingSuperCallRule reports setUp() and tearDown() overrides that do not
// call the superclass implementation.
type MissingSuperCallRule struct {
	Config ClassConfiguration
}

// NewMissingSuperCallRule returns the rule with its default configuration.
func NewMissingSuperCallRule() *MissingSuperCallRule {
	return &MissingSuperCallRule{Config: NewClassConfiguration()}
}

func (r *MissingSuperCallRule) Description() Description {
	return Description{
		Identifier:  MissingSuperCallID,
		Name:        "XCTestCase missing super.setUp() or super.tearDown()",
		Description: "XCTestCase that overrides setUp() or tearDown() methods should call super.",
		Kind:        KindIdiomatic,
		NonTriggeringExamples: []string{
			`class TestCase: XCTestCase {
  override func setUp() {
    super.setUp()
  }
  override func tearDown() {
    super.tearDown()
  }
}
`,
			`class TestCase: XCTestCase {}
`,
			`struct MyStruct {
  func setUp() {
    print("setUp")
  }
  func tearDown() {
    print("tearDown")
  }
}
`,
		},
		TriggeringExamples: []string{
			`class TestCase: XCTestCase {
  override func ↓setUp() {
    print("setUp")
  }
  override func ↓tearDown() {
    print("tearDown")
  }
  override class func ↓setUp() {
    print("setUp")
  }
  override class func ↓tearDown() {
    print("tearDown")
  }
}
`,
		},
	}
}

func (r *MissingSuperCallRule) Configure(raw any) error {
	return withRule(MissingSuperCallID, r.Config.Apply(raw))
}

func (r *MissingSuperCallRule) ConfigurationDescription() string {
	return r.Config.String()
}

func (r *MissingSuperCallRule) Validate(file *syntax.File) []Violation {
	return ValidateMissingSuperCall(file, r.Config)
}

// ValidateMissingSuperCall reports, at its name, every instance or class
// setUp()/tearDown() method of a test class that has no direct call to the
// matching super method.
func ValidateMissingSuperCall(file *syntax.File, cfg ClassConfiguration) []Violation {
	names := []string{"setUp()", "tearDown()"}
	kinds := []syntax.Kind{syntax.KindMethodInstance, syntax.KindMethodClass}

	var out []Violation
	for _, class := range syntax.FindClasses(file.Root(), cfg.TestClasses()) {
		for _, method := range syntax.Methods(class, names, kinds) {
			if callee, ok := syntax.SuperCallName(method); ok && syntax.Call(method, callee) != nil {
				continue
			}
			out = append(out, Violation{
				RuleID:   MissingSuperCallID,
				Severity: cfg.Severity(),
				Offset:   method.NameOffset(),
			})
		}
	}
	return out
}

// NullifyStoredPropertiesRule reports stored properties of a test class
// that tearDown() does not set to nil.
type NullifyStoredPropertiesRule struct {
	Config ClassConfiguration
}

// NewNullifyStoredPropertiesRule returns the rule with its default
// configuration.
func NewNullifyStoredPropertiesRule() *NullifyStoredPropertiesRule {
	return &NullifyStoredPropertiesRule{Config: NewClassConfiguration()}
}

func (r *NullifyStoredPropertiesRule) Description() Description {
	return Description{
		Identifier:  NullifyStoredPropertiesID,
		Name:        "XCTestCase nullify all stored properties",
		Description: "XCTestCase should nullify all stored properties in tearDown().",
		Kind:        KindIdiomatic,
		NonTriggeringExamples: []string{
			`class TestCase: XCTestCase {
  var api: API!
  var data: String? = "data"

  override func setUp() {
    super.setUp()
    api = API()
    api.data = data
  }

  override func tearDown() {
    api = nil
    data = nil
    super.tearDown()
  }
}
`,
		},
		TriggeringExamples: []string{
			`class TestCase: XCTestCase {
  var ↓api: API!
  var data: String? = "data"

  override func setUp() {
    super.setUp()
    api = API()
  }

  override func tearDown() {
    data = nil
    super.tearDown()
  }
}
`,
			`class TestCase: XCTestCase {
  var ↓api: API!
  var ↓data: String? = "data"

  override func setUp() {
    super.setUp()
    api = API()
  }
}
`,
			`class TestCase: XCTestCase {
  var ↓api: API!
  var data: String? = "data"
  let ↓config = Config()

  override func tearDown() {
    data = nil
    super.tearDown()
  }
}
`,
		},
	}
}

func (r *NullifyStoredPropertiesRule) Configure(raw any) error {
	return withRule(NullifyStoredPropertiesID, r.Config.Apply(raw))
}

func (r *NullifyStoredPropertiesRule) ConfigurationDescription() string {
	return r.Config.String()
}

func (r *NullifyStoredPropertiesRule) Validate(file *syntax.File) []Violation {
	return ValidateNullifyStoredProperties(file, r.Config)
}

// ValidateNullifyStoredProperties reports, at its name, every stored
// property of a test class that the tearDown() body never assigns nil to.
// Assignments inside comments or string literals do not count. Without a
// tearDown() method every stored property is reported.
func ValidateNullifyStoredProperties(file *syntax.File, cfg ClassConfiguration) []Violation {
	var out []Violation
	report := func(prop *syntax.Node) {
		out = append(out, Violation{
			RuleID:   NullifyStoredPropertiesID,
			Severity: cfg.Severity(),
			Offset:   prop.NameOffset(),
		})
	}

	for _, class := range syntax.FindClasses(file.Root(), cfg.TestClasses()) {
		props := syntax.StoredProperties(class)
		tearDown := syntax.Method(class, "tearDown()")
		if tearDown == nil {
			for _, prop := range props {
				report(prop)
			}
			continue
		}

		body, hasBody := file.BodyRange(tearDown)
		for _, prop := range props {
			name, ok := prop.Name()
			if !ok {
				continue
			}
			// The name is interpolated as is; a name that breaks the
			// expression never matches.
			pattern := `\s+` + name + `\s*=\s*nil`
			if hasBody && len(file.MatchPattern(pattern, body, syntax.CommentAndStringKinds)) > 0 {
				continue
			}
			report(prop)
		}
	}
	return out
}

// ResetSharedStateRule reports shared state that a test class sets up
// without tearing it down in tearDown().
type ResetSharedStateRule struct {
	Config SharedStateConfiguration
}

// NewResetSharedStateRule returns the rule with its default configuration.
func NewResetSharedStateRule() *ResetSharedStateRule {
	return &ResetSharedStateRule{Config: NewSharedStateConfiguration()}
}

func (r *ResetSharedStateRule) Description() Description {
	return Description{
		Identifier:  ResetSharedStateID,
		Name:        "XCTestCase reset shared state",
		Description: "XCTestCase should reset shared state in tearDown().",
		Kind:        KindIdiomatic,
		NonTriggeringExamples: []string{
			`class TestCase: XCTestCase {
  override func setUp() {
    super.setUp()
    MySharedStateComponent.setUp()
  }

  override func tearDown() {
    MySharedStateComponent.tearDown()
    super.tearDown()
  }

  func testComponent() {
    MySharedStateComponent.setUp(with: Configuration())
  }
}
`,
			`class TestCase: XCTestCase {
  override func setUp() {
    super.setUp()
    ComponentMock().setUp()
  }
}
class ComponentMock: Component {
  func setUp() {
    MySharedStateComponent.setUp()
  }
}
`,
		},
		TriggeringExamples: []string{
			`class TestCase: XCTestCase {
  override func setUp() {
    super.setUp()
    ↓MySharedStateComponent.setUp()
  }

  override func tearDown() {
    super.tearDown()
  }
}
`,
			`class TestCase: XCTestCase {
  override func setUp() {
    super.setUp()
    ↓MySharedStateComponent.setUp()
  }
}
`,
			`class TestCase: XCTestCase {
  func testComponent() {
    ↓MySharedStateComponent.setUp(with: Configuration())
  }
}
`,
		},
	}
}

func (r *ResetSharedStateRule) Configure(raw any) error {
	return withRule(ResetSharedStateID, r.Config.Apply(raw))
}

func (r *ResetSharedStateRule) ConfigurationDescription() string {
	return r.Config.String()
}

func (r *ResetSharedStateRule) Validate(file *syntax.File) []Violation {
	return ValidateResetSharedState(file, r.Config)
}

// ValidateResetSharedState reports every set-up match in a test class body
// whose paired tear-down expression does not occur in the tearDown() body.
// Matches inside comments or string literals are ignored. Results are
// grouped by class and then by pattern.
func ValidateResetSharedState(file *syntax.File, cfg SharedStateConfiguration) []Violation {
	var out []Violation
	for _, class := range syntax.FindClasses(file.Root(), cfg.TestClasses()) {
		classBody, ok := file.BodyRange(class)
		if !ok {
			continue
		}
		tearDown := syntax.Method(class, "tearDown()")

		for _, p := range cfg.Patterns() {
			setUps := file.Match(p.SetUp(), classBody, syntax.CommentAndStringKinds)
			if len(setUps) == 0 {
				continue
			}
			if tornDown(file, tearDown, p) {
				continue
			}
			for _, offset := range setUps {
				out = append(out, Violation{
					RuleID:   ResetSharedStateID,
					Severity: cfg.Severity(),
					Offset:   offset,
				})
			}
		}
	}
	return out
}

func tornDown(file *syntax.File, tearDown *syntax.Node, p SharedStatePattern) bool {
	if tearDown == nil {
		return false
	}
	body, ok := file.BodyRange(tearDown)
	if !ok {
		return false
	}
	return len(file.Match(p.TearDown(), body, syntax.CommentAndStringKinds)) > 0
}
