package dialog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fauzaanu/diet/internal/plan"
)

// Resume-choice menu tokens.
const (
	ChoiceRestart = "Start over"
	ChoiceResume  = "Show my plan"
)

const (
	promptWelcome = "Welcome to the Diet Plan Bot! Let's create a personalized plan based on Alex Hormozi's method.\n\n" +
		"First, please choose your preferred weight unit:"
	promptResumeChoice = "You already have a saved plan. Start over, or show the saved one?"
	promptGoal         = "What's your goal?"
	promptInvalidUnit  = "Please choose kg or lbs."
	promptInvalidNum   = "Please enter a valid number for your weight."
	promptInvalidGoal  = "Please pick one of the listed goals."
	promptFoods        = "One more thing: what are your favorite foods? Send a comma-separated list, e.g. \"chicken, rice, eggs\"."
	promptFoodsEmpty   = "That list looks empty. Please send at least one food, separated by commas."
	promptFoodsExpired = "Time's up for the food question. Your plan above still stands; type /plan anytime to see it again."
	promptCancelled    = "Diet plan creation cancelled. Type /start to begin again."
	promptNoSaved      = "You don't have a saved plan yet. Let's build one!\n\nFirst, please choose your preferred weight unit:"
)

func unitKeyboard() [][]string {
	return [][]string{{string(plan.UnitKG), string(plan.UnitLBS)}}
}

func resumeKeyboard() [][]string {
	return [][]string{{ChoiceRestart, ChoiceResume}}
}

func goalKeyboard() [][]string {
	goals := plan.Goals()
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		rows = append(rows, []string{g.Title()})
	}
	return rows
}

func levelKeyboard(goal plan.Goal) [][]string {
	levels := plan.Levels(goal)
	rows := make([][]string, 0, len(levels))
	for _, l := range levels {
		rows = append(rows, []string{strconv.Itoa(l)})
	}
	return rows
}

func promptWeight(unit plan.Unit) string {
	return fmt.Sprintf("Great! Now, please enter your weight in %s:", unit)
}

func promptLevel(goal plan.Goal) string {
	return fmt.Sprintf("Choose a level for %s:", goal.Title())
}

func planText(result plan.Result) string {
	return fmt.Sprintf(
		"Here's your personalized diet plan:\n\n"+
			"Daily Calorie Target: %d calories\n"+
			"Daily Protein Target: %dg\n\n"+
			"Remember to distribute your calories and protein throughout the day. "+
			"You can adjust your meals based on your preferences, as long as you meet these targets.",
		result.Calories, result.Protein,
	)
}

// buildSearchQuery combines the goal, the derived targets, and the food
// tokens into a recipe search string the user can paste anywhere.
func buildSearchQuery(goal plan.Goal, result plan.Result, foods []string) string {
	return fmt.Sprintf("%s recipes %d calories %dg protein with %s",
		strings.ToLower(goal.Title()), result.Calories, result.Protein, strings.Join(foods, " "))
}

func foodsDoneText(query string) string {
	return fmt.Sprintf("Noted! Here's a search you can use for meal ideas:\n\n%s", query)
}
