package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const dashboardPage = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Dashboard Acadi</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
</head>
<body data-signals="{statsData: {}}" data-on-load="@get('/sse/refresh-all')">
<header>
<h1>Dashboard Acadi</h1>
<p>Suivi des ventes et de la satisfaction</p>
</header>
<main>
<section id="kpi">
<div class="kpi-card">CA net: <span data-text="$statsData.netRevenue"></span></div>
<div class="kpi-card">CA brut: <span data-text="$statsData.grossRevenue"></span></div>
<div class="kpi-card">Clients: <span data-text="$statsData.totalCustomers"></span></div>
<div class="kpi-card">Panier moyen: <span data-text="$statsData.averageOrderValue"></span></div>
<div class="kpi-card">NPS: <span data-text="$statsData.nps.score"></span></div>
<div class="kpi-card">Satisfaction: <span data-text="$statsData.satisfaction.averageRating"></span></div>
</section>
<section>
<h2>Ventes hebdomadaires</h2>
<div id="weekly-content">Chargement...</div>
</section>
<section>
<h2>Revenus externes</h2>
<div id="external-content" data-text="$statsData.externalRevenuesMetrics.totalRevenue"></div>
</section>
</main>
</body>
</html>`

// Dashboard renders the single reporting page. Data arrives through
// the SSE endpoints, so the markup itself is static.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}
