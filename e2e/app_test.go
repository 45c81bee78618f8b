package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite provides a test suite for end-to-end tests
type E2ETestSuite struct {
	suite.Suite
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	browser, err := pw.Chromium.Launch()
	require.NoError(suite.T(), err, "could not launch chromium")
	suite.browser = browser

	suite.expect = playwright.NewPlaywrightAssertions()
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.browser != nil {
		suite.browser.Close()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	page, err := suite.browser.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page

	_, err = suite.page.Goto(appURL)
	require.NoError(suite.T(), err, "could not navigate to app")
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.page != nil {
		suite.page.Close()
	}
}

func (suite *E2ETestSuite) signupAndLogin(username string) {
	_, err := suite.page.Goto(appURL + "/signup")
	require.NoError(suite.T(), err, "could not open signup page")

	err = suite.expect.Locator(suite.page.Locator(".signup-form")).ToBeVisible()
	require.NoError(suite.T(), err, "signup form not visible")

	err = suite.page.Locator("input[name=username]").Fill(username)
	require.NoError(suite.T(), err, "failed to fill username")
	err = suite.page.Locator("input[name=password]").Fill("testpass123")
	require.NoError(suite.T(), err, "failed to fill password")
	err = suite.page.Locator(".signup-btn").Click()
	require.NoError(suite.T(), err, "failed to click signup")

	// Signup lands on the login page
	err = suite.expect.Locator(suite.page.Locator(".login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "login form not visible")

	err = suite.page.Locator("input[name=username]").Fill(username)
	require.NoError(suite.T(), err, "failed to fill username")
	err = suite.page.Locator("input[name=password]").Fill("testpass123")
	require.NoError(suite.T(), err, "failed to fill password")
	err = suite.page.Locator(".login-btn").Click()
	require.NoError(suite.T(), err, "failed to click login")

	err = suite.expect.Locator(suite.page.Locator(".dashboard-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "did not redirect to dashboard after login")
}

func (suite *E2ETestSuite) fillDashboard(income, label, amount string) {
	err := suite.page.Locator("input[name=income]").Fill(income)
	require.NoError(suite.T(), err, "failed to fill income")
	err = suite.page.Locator("input[name=age]").Fill("30")
	require.NoError(suite.T(), err, "failed to fill age")

	_, err = suite.page.Locator("select[name=city_tier]").SelectOption(playwright.SelectOptionValues{
		Values: &[]string{"2"},
	})
	require.NoError(suite.T(), err, "failed to select city tier")

	err = suite.page.Locator(".expense-label").First().Fill(label)
	require.NoError(suite.T(), err, "failed to fill expense label")
	err = suite.page.Locator(".expense-amount").First().Fill(amount)
	require.NoError(suite.T(), err, "failed to fill expense amount")

	err = suite.page.Locator("button.submit").Click()
	require.NoError(suite.T(), err, "failed to submit dashboard")
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	suite.signupAndLogin("flowuser")

	suite.fillDashboard("50000", "Rent", "12000")

	// Result page
	err := suite.expect.Locator(suite.page.Locator(".result-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "result page not visible")
	err = suite.expect.Locator(suite.page.Locator(".balance")).ToHaveText("38000.00")
	require.NoError(suite.T(), err, "balance mismatch")
	err = suite.expect.Locator(suite.page.Locator(".breakdown tbody td").First()).ToHaveText("Rent")
	require.NoError(suite.T(), err, "label mismatch")

	// Save
	err = suite.page.Locator(".save-btn").Click()
	require.NoError(suite.T(), err, "failed to click save")
	err = suite.expect.Locator(suite.page.Locator(".message")).ToContainText("Data saved successfully!")
	require.NoError(suite.T(), err, "save message missing")

	// History
	_, err = suite.page.Goto(appURL + "/history")
	require.NoError(suite.T(), err, "could not open history")
	err = suite.expect.Locator(suite.page.Locator(".history-item")).ToHaveCount(1)
	require.NoError(suite.T(), err, "history item count mismatch")
	err = suite.expect.Locator(suite.page.Locator(".history-item").First()).ToContainText("38000.00")
	require.NoError(suite.T(), err, "history balance mismatch")

	// Delete the record
	err = suite.page.Locator(".history-item .delete-btn").First().Click()
	require.NoError(suite.T(), err, "failed to delete record")
	err = suite.expect.Locator(suite.page.Locator(".history-item")).ToHaveCount(0)
	require.NoError(suite.T(), err, "record still listed after delete")
}

func (suite *E2ETestSuite) TestOverspendWarning() {
	suite.signupAndLogin("overspender")

	suite.fillDashboard("10000", "Rent", "20000")

	err := suite.expect.Locator(suite.page.Locator(".warning")).ToContainText("Your total expenses exceed your income")
	require.NoError(suite.T(), err, "warning missing")
	err = suite.expect.Locator(suite.page.Locator(".balance")).ToHaveText("0.00")
	require.NoError(suite.T(), err, "balance should be floored at zero")
}

func (suite *E2ETestSuite) TestFeedbackReply() {
	_, err := suite.page.Goto(appURL + "/feedback")
	require.NoError(suite.T(), err, "could not open feedback page")

	err = suite.page.Locator("textarea[name=message]").Fill("Nice predictions")
	require.NoError(suite.T(), err, "failed to fill message")
	err = suite.page.Locator(".feedback-form button").Click()
	require.NoError(suite.T(), err, "failed to submit feedback")
	err = suite.expect.Locator(suite.page.Locator(".message")).ToContainText("Thank you for your feedback!")
	require.NoError(suite.T(), err, "feedback confirmation missing")

	// Admin replies
	_, err = suite.page.Goto(appURL + "/admin_login")
	require.NoError(suite.T(), err, "could not open admin login")
	err = suite.page.Locator("input[name=username]").Fill(adminUsername)
	require.NoError(suite.T(), err, "failed to fill admin username")
	err = suite.page.Locator("input[name=password]").Fill(adminPassword)
	require.NoError(suite.T(), err, "failed to fill admin password")
	err = suite.page.Locator(".admin-login-form button").Click()
	require.NoError(suite.T(), err, "failed to submit admin login")

	item := suite.page.Locator(".feedback-item").Filter(playwright.LocatorFilterOptions{HasText: "Nice predictions"})
	err = suite.expect.Locator(item).ToBeVisible()
	require.NoError(suite.T(), err, "feedback not listed for admin")

	err = item.Locator("input[name=reply]").Fill("Thanks!")
	require.NoError(suite.T(), err, "failed to fill reply")
	err = item.Locator("form[action='/admin_reply'] button").Click()
	require.NoError(suite.T(), err, "failed to submit reply")

	// Public listing shows the reply
	_, err = suite.page.Goto(appURL + "/feedbacks")
	require.NoError(suite.T(), err, "could not open feedback list")
	err = suite.expect.Locator(suite.page.Locator(".reply").First()).ToContainText("Thanks!")
	require.NoError(suite.T(), err, "reply not shown publicly")
}

// TestE2ESuite runs the e2e test suite
func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
