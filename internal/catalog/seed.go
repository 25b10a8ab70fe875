package catalog

import "fmt"

// The static curriculum. Used only when nothing is persisted yet; once the
// seed has been written through, persisted edits are never re-merged over.

var seedLessonTitles = map[string][]string{
	"chapter-1-1": {
		"Introduction to Arrays",
		"Array Operations and Algorithms",
		"Introduction to Linked Lists",
		"Stacks - Last In, First Out",
		"Queues - First In, First Out",
	},
	"chapter-1-2": {
		"Binary Trees Basics",
		"Tree Traversals",
		"Binary Search Trees",
		"AVL Trees and Balancing",
		"Heap Data Structure",
	},
	"chapter-1-3": {
		"Hash Tables Introduction",
		"Hash Functions and Collisions",
		"Hash Maps and Hash Sets",
		"Applications of Hashing",
		"Advanced Hashing Techniques",
	},
	"chapter-1-4": {
		"Graphs Introduction",
		"Graph Representations",
		"Depth-First Search (DFS)",
		"Breadth-First Search (BFS)",
		"Graph Applications",
	},
}

var seedChapterTitles = map[string][]string{
	"1": {"Linear Data Structures", "Trees and Hierarchical Structures", "Hash-Based Structures", "Graphs and Networks"},
	"2": {"Sorting Algorithms", "Searching Algorithms", "Dynamic Programming"},
	"3": {"Advanced Trees", "Advanced Graphs"},
	"4": {"Graph Traversal", "Shortest Path Algorithms", "Minimum Spanning Trees"},
	"5": {"DP Fundamentals", "DP Patterns", "Advanced DP"},
}

var seedChapterDescriptions = map[string][]string{
	"1": {
		"Master arrays, linked lists, stacks, and queues - the building blocks of programming",
		"Understand binary trees, BSTs, and tree traversal techniques",
		"Learn about hash tables, hash functions, and collision resolution",
		"Explore graph representations and basic graph algorithms",
	},
	"2": {
		"Learn bubble sort, merge sort, quick sort, and their complexities",
		"Master linear search, binary search, and search optimizations",
		"Understand memoization, tabulation, and solving optimization problems",
	},
	"3": {
		"Study AVL trees, Red-Black trees, B-trees, and Tries",
		"Advanced graph algorithms including Dijkstra, Bellman-Ford, and Floyd-Warshall",
	},
	"4": {
		"Deep dive into DFS, BFS, and their applications",
		"Learn Dijkstra's, Bellman-Ford, and A* algorithms",
		"Master Kruskal's and Prim's algorithms for MST",
	},
	"5": {
		"Introduction to dynamic programming concepts and techniques",
		"Common DP patterns: knapsack, LCS, LIS, and more",
		"Complex DP problems and optimization strategies",
	},
}

func seedLessons(chapterID string, count, startOrder int) []Lesson {
	titles, ok := seedLessonTitles[chapterID]
	if !ok {
		titles = make([]string, count)
		for i := range titles {
			titles[i] = fmt.Sprintf("Lesson %d", i+1)
		}
	}

	lessons := make([]Lesson, count)
	for i := range lessons {
		lessons[i] = Lesson{
			ID:        fmt.Sprintf("lesson-%s-%d", chapterID, i+1),
			ChapterID: chapterID,
			Title:     titles[i],
			Content:   fmt.Sprintf("# %s\n\nThis lesson covers the core concepts step by step.", titles[i]),
			Order:     startOrder + i,
			Duration:  15 + i*5,
			Completed: false,
			Unlocked:  i == 0,
		}
	}
	return lessons
}

func seedChapters(courseID string, count int) []Chapter {
	titles := seedChapterTitles[courseID]
	descriptions := seedChapterDescriptions[courseID]

	chapters := make([]Chapter, count)
	lessonOrder := 1
	for i := range chapters {
		chapterID := fmt.Sprintf("chapter-%s-%d", courseID, i+1)
		lessons := seedLessons(chapterID, 5, lessonOrder)
		lessonOrder += len(lessons)
		chapters[i] = Chapter{
			ID:          chapterID,
			CourseID:    courseID,
			Title:       titles[i],
			Description: descriptions[i],
			Order:       i + 1,
			Lessons:     lessons,
			Progress:    0,
			Unlocked:    i == 0,
		}
	}
	return chapters
}

// SeedCourses builds a fresh copy of the static catalog. Each call returns an
// independent tree so callers can mutate their copy freely.
func SeedCourses() []Course {
	return []Course{
		{
			ID:          "1",
			Title:       "Data Structures Fundamentals",
			Description: "Learn the essential data structures every programmer needs to know. From arrays to trees, master the building blocks of efficient algorithms.",
			Difficulty:  DifficultyBeginner,
			Duration:    300,
			Chapters:    seedChapters("1", 4),
		},
		{
			ID:          "2",
			Title:       "Algorithm Design & Analysis",
			Description: "Master algorithm design techniques including divide and conquer, dynamic programming, and greedy algorithms.",
			Difficulty:  DifficultyIntermediate,
			Duration:    450,
			Chapters:    seedChapters("2", 3),
		},
		{
			ID:          "3",
			Title:       "Advanced Data Structures",
			Description: "Explore advanced data structures like B-trees, skip lists, and bloom filters used in real-world systems.",
			Difficulty:  DifficultyAdvanced,
			Duration:    375,
			Chapters:    seedChapters("3", 2),
		},
		{
			ID:          "4",
			Title:       "Graph Algorithms",
			Description: "Master graph theory and algorithms including BFS, DFS, shortest paths, and minimum spanning trees.",
			Difficulty:  DifficultyIntermediate,
			Duration:    420,
			Chapters:    seedChapters("4", 3),
		},
		{
			ID:          "5",
			Title:       "Dynamic Programming Mastery",
			Description: "Learn to solve complex optimization problems using dynamic programming techniques from basics to advanced patterns.",
			Difficulty:  DifficultyAdvanced,
			Duration:    525,
			Chapters:    seedChapters("5", 3),
		},
	}
}
