// Package catalog holds the static table of tunable clang-format options:
// each option's ordered value domain, the high-impact priority subset, and
// the interaction constraints between options that the formatter itself
// resolves at dump-config time.
package catalog

// Option pairs an option name with its ordered domain of legal values.
// Domain order matters: the search breaks cost ties in favor of the
// first-listed value.
type Option struct {
	Name   string
	Values []string
}

var boolValues = []string{"false", "true"}

// options lists every tunable option in the order the clang-format 13
// documentation presents them.
// https://releases.llvm.org/13.0.0/tools/clang/docs/ClangFormatStyleOptions.html
var options = []Option{
	{"AccessModifierOffset", []string{"-4", "-3", "-2", "-1", "0"}},
	{"AlignAfterOpenBracket", []string{"Align", "DontAlign", "AlwaysBreak"}},
	{"AlignArrayOfStructures", []string{"Left", "Right", "None"}},
	{"AlignConsecutiveAssignments", []string{"None", "Consecutive", "AcrossEmptyLines", "AcrossComments", "AcrossEmptyLinesAndComments"}},
	{"AlignConsecutiveBitFields", []string{"None", "Consecutive", "AcrossEmptyLines", "AcrossComments", "AcrossEmptyLinesAndComments"}},
	{"AlignConsecutiveDeclarations", []string{"None", "Consecutive", "AcrossEmptyLines", "AcrossComments", "AcrossEmptyLinesAndComments"}},
	{"AlignConsecutiveMacros", []string{"None", "Consecutive", "AcrossEmptyLines", "AcrossComments", "AcrossEmptyLinesAndComments"}},
	{"AlignEscapedNewlines", []string{"DontAlign", "Left", "Right"}},
	{"AlignOperands", []string{"DontAlign", "Align", "AlignAfterOperator"}},
	{"AlignTrailingComments", boolValues},
	{"AllowAllArgumentsOnNextLine", boolValues},
	{"AllowAllConstructorInitializersOnNextLine", boolValues},
	{"AllowAllParametersOfDeclarationOnNextLine", boolValues},
	{"AllowShortBlocksOnASingleLine", []string{"Never", "Empty", "Always"}},
	{"AllowShortCaseLabelsOnASingleLine", boolValues},
	{"AllowShortEnumsOnASingleLine", boolValues},
	{"AllowShortFunctionsOnASingleLine", []string{"None", "InlineOnly", "Empty", "Inline", "All"}},
	{"AllowShortIfStatementsOnASingleLine", []string{"Never", "WithoutElse", "OnlyFirstIf", "AllIfsAndElse"}},
	{"AllowShortLambdasOnASingleLine", []string{"None", "Empty", "Inline", "All"}},
	{"AllowShortLoopsOnASingleLine", boolValues},
	{"AlwaysBreakAfterDefinitionReturnType", []string{"None", "All", "TopLevel"}},
	{"AlwaysBreakAfterReturnType", []string{"None", "All", "TopLevel", "AllDefinitions", "TopLevelDefinitions"}},
	{"AlwaysBreakBeforeMultilineStrings", boolValues},
	{"AlwaysBreakTemplateDeclarations", []string{"No", "MultiLine", "Yes"}},
	{"BasedOnStyle", []string{"LLVM", "Google", "Chromium", "Mozilla", "WebKit", "Microsoft", "GNU"}},
	{"BinPackArguments", boolValues},
	{"BinPackParameters", boolValues},
	{"BitFieldColonSpacing", []string{"Both", "None", "Before", "After"}},
	{"BraceWrapping:AfterCaseLabel", boolValues},
	{"BraceWrapping:AfterClass", boolValues},
	{"BraceWrapping:AfterControlStatement", []string{"Never", "MultiLine", "Always"}},
	{"BraceWrapping:AfterEnum", boolValues},
	{"BraceWrapping:AfterFunction", boolValues},
	{"BraceWrapping:AfterNamespace", boolValues},
	{"BraceWrapping:AfterStruct", boolValues},
	{"BraceWrapping:AfterUnion", boolValues},
	{"BraceWrapping:AfterExternBlock", boolValues},
	{"BraceWrapping:BeforeCatch", boolValues},
	{"BraceWrapping:BeforeElse", boolValues},
	{"BraceWrapping:BeforeLambdaBody", boolValues},
	{"BraceWrapping:BeforeWhile", boolValues},
	{"BraceWrapping:IndentBraces", boolValues},
	{"BraceWrapping:SplitEmptyFunction", boolValues},
	{"BraceWrapping:SplitEmptyRecord", boolValues},
	{"BraceWrapping:SplitEmptyNamespace", boolValues},
	{"BreakBeforeBinaryOperators", []string{"None", "NonAssignment", "All"}},
	{"BreakBeforeConceptDeclarations", boolValues},
	{"BreakBeforeInheritanceComma", boolValues},
	{"BreakBeforeTernaryOperators", boolValues},
	{"BreakConstructorInitializersBeforeComma", boolValues},
	{"BreakConstructorInitializers", []string{"BeforeColon", "BeforeComma", "AfterColon"}},
	{"BreakInheritanceList", []string{"BeforeColon", "BeforeComma", "AfterColon", "AfterComma"}},
	{"BreakStringLiterals", boolValues},
	{"ColumnLimit", []string{"80", "120", "0"}},
	{"CompactNamespaces", boolValues},
	{"ConstructorInitializerAllOnOneLineOrOnePerLine", boolValues},
	{"ConstructorInitializerIndentWidth", []string{"0", "2", "3", "4", "6", "8"}},
	{"ContinuationIndentWidth", []string{"0", "2", "3", "4", "6", "8"}},
	{"Cpp11BracedListStyle", boolValues},
	{"EmptyLineAfterAccessModifier", []string{"Never", "Leave", "Always"}},
	{"EmptyLineBeforeAccessModifier", []string{"Never", "Leave", "LogicalBlock", "Always"}},
	{"FixNamespaceComments", boolValues},
	{"IncludeBlocks", []string{"Preserve", "Merge", "Regroup"}},
	{"IndentAccessModifiers", boolValues},
	{"IndentCaseBlocks", boolValues},
	{"IndentCaseLabels", boolValues},
	{"IndentExternBlock", []string{"AfterExternBlock", "NoIndent", "Indent"}},
	{"IndentGotoLabels", boolValues},
	{"IndentPPDirectives", []string{"None", "AfterHash", "BeforeHash"}},
	{"IndentRequires", boolValues},
	{"IndentWidth", []string{"2", "3", "4", "8"}},
	{"IndentWrappedFunctionNames", boolValues},
	{"InsertTrailingCommas", []string{"None", "Wrapped"}},
	{"KeepEmptyLinesAtTheStartOfBlocks", boolValues},
	{"LambdaBodyIndentation", []string{"Signature", "OuterScope"}},
	{"MaxEmptyLinesToKeep", []string{"1", "2", "3"}},
	{"NamespaceIndentation", []string{"None", "Inner", "All"}},
	{"PenaltyBreakAssignment", []string{"2", "100", "1000"}},
	{"PenaltyBreakBeforeFirstCallParameter", []string{"1", "19", "100"}},
	{"PenaltyBreakComment", []string{"300"}},
	{"PenaltyBreakFirstLessLess", []string{"120"}},
	{"PenaltyBreakString", []string{"1000"}},
	{"PenaltyBreakTemplateDeclaration", []string{"10"}},
	{"PenaltyExcessCharacter", []string{"100", "1000000"}},
	{"PenaltyReturnTypeOnItsOwnLine", []string{"60", "200", "1000"}},
	{"PenaltyIndentedWhitespace", []string{"0", "1"}},
	{"PointerAlignment", []string{"Left", "Right", "Middle"}},
	{"ReferenceAlignment", []string{"Pointer", "Left", "Right", "Middle"}},
	{"ReflowComments", boolValues},
	{"ShortNamespaceLines", []string{"0", "1"}},
	{"SortIncludes", []string{"Never", "CaseSensitive", "CaseInsensitive"}},
	{"SortUsingDeclarations", boolValues},
	{"SpaceAfterCStyleCast", boolValues},
	{"SpaceAfterLogicalNot", boolValues},
	{"SpaceAfterTemplateKeyword", boolValues},
	{"SpaceAroundPointerQualifiers", []string{"Default", "Before", "After", "Both"}},
	{"SpaceBeforeAssignmentOperators", boolValues},
	{"SpaceBeforeCaseColon", boolValues},
	{"SpaceBeforeCpp11BracedList", boolValues},
	{"SpaceBeforeCtorInitializerColon", boolValues},
	{"SpaceBeforeInheritanceColon", boolValues},
	{"SpaceBeforeParens", []string{"Never", "ControlStatements", "ControlStatementsExceptControlMacros", "NonEmptyParentheses", "Always"}},
	{"SpaceBeforeRangeBasedForLoopColon", boolValues},
	{"SpaceInEmptyBlock", boolValues},
	{"SpaceInEmptyParentheses", boolValues},
	{"SpacesBeforeTrailingComments", []string{"0", "1"}},
	{"SpacesInAngles", []string{"Never", "Always", "Leave"}},
	{"SpacesInCStyleCastParentheses", boolValues},
	{"SpacesInConditionalStatement", boolValues},
	{"SpacesInContainerLiterals", boolValues},
	{"SpacesInParentheses", boolValues},
	{"SpacesInSquareBrackets", boolValues},
	{"SpaceBeforeSquareBrackets", boolValues},
	{"Standard", []string{"c++03", "c++11", "c++14", "c++17", "c++20", "Latest"}},
	{"UseTab", []string{"Never", "ForIndentation", "ForContinuationAndIndentation", "AlignWithSpaces", "Always"}},
}

// priority names the options tuned first: they dominate the edit cost, so
// converging on them before the long tail saves a lot of evaluations.
var priority = []string{"BasedOnStyle", "IndentWidth", "UseTab", "SortIncludes", "IncludeBlocks"}

var domains = func() map[string][]string {
	m := make(map[string][]string, len(options))
	for _, opt := range options {
		m[opt.Name] = opt.Values
	}
	return m
}()

// Names returns every tunable option name in catalog order.
func Names() []string {
	out := make([]string, len(options))
	for i, opt := range options {
		out[i] = opt.Name
	}
	return out
}

// Values returns the ordered value domain for name, or nil when the option
// is not in the catalog.
func Values(name string) []string {
	vals, ok := domains[name]
	if !ok {
		return nil
	}
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Has reports whether name is a tunable option.
func Has(name string) bool {
	_, ok := domains[name]
	return ok
}

// Priority returns the ordered high-impact subset evaluated before the full
// catalog.
func Priority() []string {
	out := make([]string, len(priority))
	copy(out, priority)
	return out
}
